// Package grid provides the pixel grid used by the morphology engine.
// A Grid is a dense 2D array of 8-bit values stored in row-major order.
// Binary images conventionally use 0 and 1, but every operation in this
// module works on the full 0..255 range.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is wrapped by every precondition failure in this module
// so callers can test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Grid is a 2D array of small unsigned integers indexed [row][col].
type Grid struct {
	// width and height are the dimensions in pixels
	width  int
	height int

	// pix holds the values in row-major order
	pix []uint8
}

// New creates a zero-filled grid with the given dimensions.
// Negative dimensions are clamped to zero, producing an empty grid.
func New(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
}

// FromRows builds a grid from a slice of rows. All rows must have the same length.
func FromRows(rows [][]uint8) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}

	width := len(rows[0])
	g := New(width, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w", r, len(row), width, ErrInvalidArgument)
		}
		copy(g.pix[r*width:(r+1)*width], row)
	}

	return g, nil
}

// MustFromRows is like FromRows but panics on ragged input.
// It is meant for literal fixtures.
func MustFromRows(rows [][]uint8) *Grid {
	g, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Empty reports whether the grid has no pixels.
func (g *Grid) Empty() bool { return g.width == 0 || g.height == 0 }

// At returns the value at (row, col). It panics when out of range, like a slice index.
func (g *Grid) At(row, col int) uint8 {
	return g.pix[g.index(row, col)]
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v uint8) {
	g.pix[g.index(row, col)] = v
}

// Row returns the backing slice of a single row. Writes through it modify the grid.
func (g *Grid) Row(row int) []uint8 {
	return g.pix[row*g.width : (row+1)*g.width]
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]uint8 {
	rows := make([][]uint8, g.height)
	for r := range rows {
		rows[r] = append([]uint8(nil), g.Row(r)...)
	}
	return rows
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		pix:    append([]uint8(nil), g.pix...),
	}
}

// Equal reports whether both grids have the same dimensions and values.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for i, v := range g.pix {
		if other.pix[i] != v {
			return false
		}
	}
	return true
}

// SameSize reports whether both grids have identical dimensions.
func (g *Grid) SameSize(other *Grid) bool {
	return other != nil && g.width == other.width && g.height == other.height
}

// Crop copies the height×width rectangle whose top-left corner is (row, col).
func (g *Grid) Crop(row, col, height, width int) (*Grid, error) {
	if row < 0 || col < 0 || height < 0 || width < 0 ||
		row+height > g.height || col+width > g.width {
		return nil, fmt.Errorf("crop %dx%d at (%d,%d) exceeds %dx%d grid: %w",
			height, width, row, col, g.height, g.width, ErrInvalidArgument)
	}

	out := New(width, height)
	for r := 0; r < height; r++ {
		src := g.pix[(row+r)*g.width+col : (row+r)*g.width+col+width]
		copy(out.Row(r), src)
	}
	return out, nil
}

// String formats the grid like an OpenCV matrix dump: "[0, 1;\n 1, 0]".
func (g *Grid) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r := 0; r < g.height; r++ {
		if r > 0 {
			sb.WriteString(";\n ")
		}
		for c := 0; c < g.width; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%3d", g.At(r, c))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", row, col, g.height, g.width))
	}
	return row*g.width + col
}
