package grid

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Invert returns the complement of g with respect to maxVal: maxVal - v.
// Values above maxVal saturate to zero. Binary grids use maxVal 1.
func (g *Grid) Invert(maxVal uint8) *Grid {
	out := New(g.width, g.height)
	for i, v := range g.pix {
		if v <= maxVal {
			out.pix[i] = maxVal - v
		}
	}
	return out
}

// Scale multiplies every value by factor, saturating at 255.
// The demo uses Scale(255) to make 0/1 grids visible.
func (g *Grid) Scale(factor int) *Grid {
	out := New(g.width, g.height)
	for i, v := range g.pix {
		out.pix[i] = uint8(min(max(int(v)*factor, 0), math.MaxUint8))
	}
	return out
}

// Threshold maps values >= level to 1 and everything else to 0.
func (g *Grid) Threshold(level uint8) *Grid {
	out := New(g.width, g.height)
	for i, v := range g.pix {
		if v >= level {
			out.pix[i] = 1
		}
	}
	return out
}

// CountNonZero returns the number of pixels that are not zero.
func (g *Grid) CountNonZero() int {
	n := 0
	for _, v := range g.pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Values returns a copy of the pixels in row-major order.
func (g *Grid) Values() []uint8 {
	return append([]uint8(nil), g.pix...)
}

// AbsDiff returns |a - b| pixel by pixel.
func AbsDiff(a, b *Grid) (*Grid, error) {
	if a == nil || b == nil || !a.SameSize(b) {
		return nil, fmt.Errorf("abs diff of mismatched grids: %w", ErrInvalidArgument)
	}

	out := New(a.width, a.height)
	for i := range a.pix {
		if a.pix[i] > b.pix[i] {
			out.pix[i] = a.pix[i] - b.pix[i]
		} else {
			out.pix[i] = b.pix[i] - a.pix[i]
		}
	}
	return out, nil
}

// LessOrEqual reports whether a <= b at every pixel. Grids of different sizes
// are never comparable.
func LessOrEqual(a, b *Grid) bool {
	if a == nil || b == nil || !a.SameSize(b) {
		return false
	}
	for i := range a.pix {
		if a.pix[i] > b.pix[i] {
			return false
		}
	}
	return true
}

// FromImage converts any image to a grid using its 8-bit luma.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	g := New(bounds.Dx(), bounds.Dy())

	// Fast path for images that are already 8-bit gray
	if gray, ok := img.(*image.Gray); ok {
		for r := 0; r < g.height; r++ {
			start := gray.PixOffset(bounds.Min.X, bounds.Min.Y+r)
			copy(g.Row(r), gray.Pix[start:start+g.width])
		}
		return g
	}

	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+c, bounds.Min.Y+r)).(color.Gray)
			g.pix[r*g.width+c] = gray.Y
		}
	}
	return g
}

// ToImage converts the grid into an 8-bit grayscale image with the same values.
func (g *Grid) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.width, g.height))
	for r := 0; r < g.height; r++ {
		copy(img.Pix[r*img.Stride:r*img.Stride+g.width], g.Row(r))
	}
	return img
}

// ToDense converts the grid into a gonum dense matrix. An empty grid yields nil
// since gonum does not allow zero-sized matrices.
func (g *Grid) ToDense() *mat.Dense {
	if g.Empty() {
		return nil
	}
	data := make([]float64, len(g.pix))
	for i, v := range g.pix {
		data[i] = float64(v)
	}
	return mat.NewDense(g.height, g.width, data)
}
