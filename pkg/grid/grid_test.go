package grid

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

// TestFromRows verifies construction and rejection of ragged input
func TestFromRows(t *testing.T) {
	g, err := FromRows([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	if g.Width() != 3 || g.Height() != 2 {
		t.Errorf("Expected 3x2 grid, got %dx%d", g.Width(), g.Height())
	}
	if g.At(1, 2) != 6 {
		t.Errorf("Expected value 6 at (1,2), got %d", g.At(1, 2))
	}

	_, err = FromRows([][]uint8{{1, 2}, {3}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for ragged rows, got %v", err)
	}

	empty, err := FromRows(nil)
	if err != nil || !empty.Empty() {
		t.Errorf("Expected empty grid without error, got %v (err %v)", empty, err)
	}
}

// TestCloneIsIndependent verifies that writes to a clone do not leak back
func TestCloneIsIndependent(t *testing.T) {
	g := MustFromRows([][]uint8{{0, 1}, {1, 0}})
	c := g.Clone()
	c.Set(0, 0, 9)

	if g.At(0, 0) != 0 {
		t.Errorf("Clone shares storage with the original")
	}
	if g.Equal(c) {
		t.Errorf("Expected clone to differ after write")
	}
}

// TestPad covers every border mode on a small asymmetric grid
func TestPad(t *testing.T) {
	g := MustFromRows([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})

	tests := []struct {
		name  string
		mode  BorderMode
		value uint8
		want  [][]uint8
	}{
		{
			name: "constant zero",
			mode: BorderConstant,
			want: [][]uint8{
				{0, 0, 0, 0, 0},
				{0, 1, 2, 3, 0},
				{0, 4, 5, 6, 0},
				{0, 0, 0, 0, 0},
			},
		},
		{
			name:  "constant value",
			mode:  BorderConstant,
			value: 7,
			want: [][]uint8{
				{7, 7, 7, 7, 7},
				{7, 1, 2, 3, 7},
				{7, 4, 5, 6, 7},
				{7, 7, 7, 7, 7},
			},
		},
		{
			name: "replicate",
			mode: BorderReplicate,
			want: [][]uint8{
				{1, 1, 2, 3, 3},
				{1, 1, 2, 3, 3},
				{4, 4, 5, 6, 6},
				{4, 4, 5, 6, 6},
			},
		},
		{
			name: "reflect101",
			mode: BorderReflect101,
			want: [][]uint8{
				{5, 4, 5, 6, 5},
				{2, 1, 2, 3, 2},
				{5, 4, 5, 6, 5},
				{2, 1, 2, 3, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded, err := g.Pad(1, 1, tt.mode, tt.value)
			if err != nil {
				t.Fatalf("Pad failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, padded.Rows()); diff != "" {
				t.Errorf("Pad mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := g.Pad(-1, 0, BorderConstant, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative border, got %v", err)
	}
}

// TestPadThenCropRoundTrip verifies that cropping the border restores the input
func TestPadThenCropRoundTrip(t *testing.T) {
	g := MustFromRows([][]uint8{
		{1, 0, 1, 1},
		{0, 1, 0, 0},
		{1, 1, 1, 0},
	})

	padded, err := g.Pad(2, 1, BorderReflect101, 0)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	if padded.Width() != 6 || padded.Height() != 7 {
		t.Fatalf("Expected padded 6x7, got %dx%d", padded.Width(), padded.Height())
	}

	cropped, err := padded.Crop(2, 1, g.Height(), g.Width())
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if !cropped.Equal(g) {
		t.Errorf("Expected round trip to restore grid, got\n%v", cropped)
	}

	if _, err := g.Crop(1, 1, 3, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for out-of-range crop, got %v", err)
	}
}

// TestPixelOps checks the helpers used by validation
func TestPixelOps(t *testing.T) {
	a := MustFromRows([][]uint8{{0, 1, 5}, {200, 1, 0}})
	b := MustFromRows([][]uint8{{1, 1, 2}, {100, 0, 0}})

	diff, err := AbsDiff(a, b)
	if err != nil {
		t.Fatalf("AbsDiff failed: %v", err)
	}
	if got := diff.Rows(); !cmp.Equal(got, [][]uint8{{1, 0, 3}, {100, 1, 0}}) {
		t.Errorf("Unexpected abs diff: %v", got)
	}
	if diff.CountNonZero() != 4 {
		t.Errorf("Expected 4 differing pixels, got %d", diff.CountNonZero())
	}

	if _, err := AbsDiff(a, New(2, 2)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for mismatched sizes, got %v", err)
	}

	binary := MustFromRows([][]uint8{{0, 1}, {1, 1}})
	if got := binary.Invert(1).Rows(); !cmp.Equal(got, [][]uint8{{1, 0}, {0, 0}}) {
		t.Errorf("Unexpected complement: %v", got)
	}
	if got := binary.Scale(255).Rows(); !cmp.Equal(got, [][]uint8{{0, 255}, {255, 255}}) {
		t.Errorf("Unexpected scaled grid: %v", got)
	}
	if got := a.Threshold(2).Rows(); !cmp.Equal(got, [][]uint8{{0, 0, 1}, {1, 0, 0}}) {
		t.Errorf("Unexpected threshold: %v", got)
	}

	if !LessOrEqual(b.Threshold(1), b) {
		t.Errorf("Expected thresholded grid to be <= original")
	}
	if LessOrEqual(a, b) {
		t.Errorf("Expected a <= b to be false")
	}
}

// TestImageConversion verifies luma conversion in both directions
func TestImageConversion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.White)
	img.Set(2, 1, color.Gray{Y: 128})

	g := FromImage(img)
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("Expected 3x2 grid, got %dx%d", g.Width(), g.Height())
	}
	if g.At(0, 0) != 255 || g.At(1, 2) != 128 || g.At(1, 0) != 0 {
		t.Errorf("Unexpected luma values:\n%v", g)
	}

	back := FromImage(g.ToImage())
	if !back.Equal(g) {
		t.Errorf("Gray round trip changed values:\n%v", back)
	}

	// Sub-images must honour their bounds
	sub := g.ToImage().SubImage(image.Rect(1, 1, 3, 2))
	if got := FromImage(sub).Rows(); !cmp.Equal(got, [][]uint8{{0, 128}}) {
		t.Errorf("Unexpected sub-image conversion: %v", got)
	}
}

// TestToDense verifies conversion into a gonum matrix
func TestToDense(t *testing.T) {
	g := MustFromRows([][]uint8{{0, 1}, {255, 42}})
	dense := g.ToDense()
	if !mat.Equal(dense, mat.NewDense(2, 2, []float64{0, 1, 255, 42})) {
		t.Errorf("Unexpected dense matrix: %v", mat.Formatted(dense))
	}

	if New(0, 3).ToDense() != nil {
		t.Errorf("Expected nil dense matrix for empty grid")
	}
}

// TestString verifies the matrix dump format
func TestString(t *testing.T) {
	g := MustFromRows([][]uint8{{0, 1}, {1, 0}})
	want := "[  0,   1;\n   1,   0]"
	if g.String() != want {
		t.Errorf("Expected %q, got %q", want, g.String())
	}
}
