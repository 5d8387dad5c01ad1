package grid

import "fmt"

// BorderMode selects how Pad fills the pixels outside the original grid.
type BorderMode int

const (
	// BorderConstant fills the border with a single value.
	BorderConstant BorderMode = iota

	// BorderReplicate repeats the nearest edge pixel: aaa|abcd|ddd.
	BorderReplicate

	// BorderReflect101 mirrors around the edge pixel without repeating it: cb|abcd|cb.
	BorderReflect101
)

var borderNames = map[BorderMode]string{
	BorderConstant:   "constant",
	BorderReplicate:  "replicate",
	BorderReflect101: "reflect101",
}

// String returns the config name of the mode.
func (m BorderMode) String() string {
	if name, ok := borderNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BorderMode(%d)", int(m))
}

// ParseBorderMode converts a config name back into a BorderMode.
func ParseBorderMode(name string) (BorderMode, error) {
	for mode, n := range borderNames {
		if n == name {
			return mode, nil
		}
	}
	return BorderConstant, fmt.Errorf("unknown border mode %q: %w", name, ErrInvalidArgument)
}

// Pad returns a copy of g extended by borderRows pixels above and below and
// borderCols pixels left and right. value is only used by BorderConstant.
// The receiver is never modified.
func (g *Grid) Pad(borderRows, borderCols int, mode BorderMode, value uint8) (*Grid, error) {
	if borderRows < 0 || borderCols < 0 {
		return nil, fmt.Errorf("negative border %dx%d: %w", borderRows, borderCols, ErrInvalidArgument)
	}
	if _, ok := borderNames[mode]; !ok {
		return nil, fmt.Errorf("unsupported border mode %d: %w", int(mode), ErrInvalidArgument)
	}

	out := New(g.width+2*borderCols, g.height+2*borderRows)
	if g.Empty() {
		if mode == BorderConstant {
			out.Fill(value)
		}
		return out, nil
	}

	for r := 0; r < out.height; r++ {
		srcRow := r - borderRows
		rowInside := srcRow >= 0 && srcRow < g.height
		dst := out.Row(r)

		for c := range dst {
			srcCol := c - borderCols
			if rowInside && srcCol >= 0 && srcCol < g.width {
				dst[c] = g.pix[srcRow*g.width+srcCol]
				continue
			}

			// Outside the source: resolve according to the border mode
			switch mode {
			case BorderConstant:
				dst[c] = value
			case BorderReplicate:
				dst[c] = g.pix[clamp(srcRow, g.height)*g.width+clamp(srcCol, g.width)]
			case BorderReflect101:
				dst[c] = g.pix[reflect101(srcRow, g.height)*g.width+reflect101(srcCol, g.width)]
			}
		}
	}

	return out, nil
}

// Fill sets every pixel to v.
func (g *Grid) Fill(v uint8) {
	for i := range g.pix {
		g.pix[i] = v
	}
}

func clamp(i, n int) int {
	return min(max(i, 0), n-1)
}

// reflect101 maps an out-of-range index into [0, n) mirroring around the edge
// pixels. Indices further than one period away keep bouncing.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
