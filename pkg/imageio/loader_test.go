package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"morphengine/pkg/grid"
)

// TestSaveAndLoad verifies a PNG round trip with and without binarization
func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "blobs.png")

	g := grid.MustFromRows([][]uint8{
		{0, 1, 0},
		{1, 1, 1},
	})
	if err := Save(path, g, 255); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gray, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !gray.Equal(g.Scale(255)) {
		t.Errorf("Expected scaled grid back, got\n%v", gray)
	}

	binary, err := Load(path, 128)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !binary.Equal(g) {
		t.Errorf("Expected binarized grid to match original, got\n%v", binary)
	}
}

// TestLoadColorImage verifies luma conversion of a color PNG
func TestLoadColorImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color.png")
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{A: 255})

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	file.Close()

	g, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if g.At(0, 0) != 255 || g.At(0, 1) != 0 {
		t.Errorf("Unexpected luma values:\n%v", g)
	}
}

// TestUnsupportedFormats verifies extension checks on both paths
func TestUnsupportedFormats(t *testing.T) {
	if _, err := Load("image.xyz", 0); err == nil {
		t.Error("Expected error for unsupported input format")
	}
	if err := Save(filepath.Join(t.TempDir(), "out.gif"), grid.New(2, 2), 1); err == nil {
		t.Error("Expected error for unsupported output format")
	}
	if err := Save(filepath.Join(t.TempDir(), "out.png"), grid.New(0, 0), 1); err == nil {
		t.Error("Expected error for empty grid")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), 0); err == nil {
		t.Error("Expected error for missing file")
	}

	for _, name := range []string{"a.PNG", "b.tiff", "c.webp", "d.bmp"} {
		if !IsSupported(name) {
			t.Errorf("Expected %s to be supported", name)
		}
	}
	for name, want := range map[string]bool{"a.png": true, "b.JPG": true, "c.jpeg": true, "d.bmp": false, "e": false} {
		if IsWritable(name) != want {
			t.Errorf("IsWritable(%q) = %v, expected %v", name, !want, want)
		}
	}
}

// TestSaveUnsupportedLeavesNoFile verifies that a rejected output path is
// never created
func TestSaveUnsupportedLeavesNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path := filepath.Join(dir, "result.bmp")

	if err := Save(path, grid.New(2, 2), 1); err == nil {
		t.Fatal("Expected error for unsupported output format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s not to exist, stat returned %v", path, err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected %s not to be created, stat returned %v", dir, err)
	}
}
