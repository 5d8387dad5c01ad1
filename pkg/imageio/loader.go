// Package imageio loads images from disk into grids and writes grids back out.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"morphengine/pkg/grid"
)

var (
	readableFormats = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
	writableFormats = []string{".png", ".jpg", ".jpeg"}
)

// Load decodes an image file and converts it to an 8-bit grid.
// When threshold is nonzero the grid is binarized: pixels >= threshold become
// 1 and everything else 0.
func Load(path string, threshold uint8) (*grid.Grid, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	g := grid.FromImage(img)
	if threshold > 0 {
		g = g.Threshold(threshold)
	}
	return g, nil
}

// Save writes g as PNG or JPEG depending on the file extension, multiplying
// every value by scale first (use 255 for 0/1 grids, 1 otherwise).
func Save(path string, g *grid.Grid, scale int) error {
	if !IsWritable(path) {
		return fmt.Errorf("unsupported output format: %s", path)
	}
	if g.Empty() {
		return fmt.Errorf("cannot save empty grid")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	img := g.Scale(scale).ToImage()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(file, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return file.Close()
}

// IsSupported reports whether Load can decode files with this extension.
func IsSupported(path string) bool {
	return hasExtension(path, readableFormats)
}

// IsWritable reports whether Save can encode files with this extension.
func IsWritable(path string) bool {
	return hasExtension(path, writableFormats)
}

func hasExtension(path string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range formats {
		if ext == format {
			return true
		}
	}
	return false
}
