// Package structuring provides structuring elements for morphological
// operations and a generator for the standard rectangle, cross, and ellipse
// shapes.
//
// An Element is an odd-sized binary grid whose origin (anchor) is its center
// pixel. Elements are immutable once constructed and may be shared freely
// between goroutines.
package structuring

import (
	"fmt"
	"strings"

	"morphengine/pkg/grid"
)

// Offset is the position of an "on" cell relative to the element's top-left
// corner.
type Offset struct {
	Row int
	Col int
}

// Element is an immutable binary structuring element with a centered anchor.
type Element struct {
	// rows and cols are the element dimensions, both odd
	rows int
	cols int

	// on marks active cells in row-major order
	on []bool

	// offsets lists the active cells in row-major order; it is the only thing
	// the engine iterates over in its hot loop
	offsets []Offset
}

// New creates an element from a grid. Any nonzero value marks an active cell.
// Both dimensions must be odd and at least one cell must be active.
func New(g *grid.Grid) (*Element, error) {
	if g == nil {
		return nil, fmt.Errorf("nil structuring grid: %w", grid.ErrInvalidArgument)
	}
	if g.Empty() {
		return nil, fmt.Errorf("empty structuring element: %w", grid.ErrInvalidArgument)
	}
	if g.Height()%2 == 0 || g.Width()%2 == 0 {
		return nil, fmt.Errorf("structuring element must have odd dimensions, got %dx%d: %w",
			g.Height(), g.Width(), grid.ErrInvalidArgument)
	}

	e := &Element{
		rows: g.Height(),
		cols: g.Width(),
		on:   make([]bool, g.Height()*g.Width()),
	}
	for r := 0; r < e.rows; r++ {
		for c := 0; c < e.cols; c++ {
			if g.At(r, c) != 0 {
				e.on[r*e.cols+c] = true
				e.offsets = append(e.offsets, Offset{Row: r, Col: c})
			}
		}
	}

	if len(e.offsets) == 0 {
		return nil, fmt.Errorf("structuring element has no active cells: %w", grid.ErrInvalidArgument)
	}

	return e, nil
}

// FromRows is a convenience wrapper around grid.FromRows and New.
func FromRows(rows [][]uint8) (*Element, error) {
	g, err := grid.FromRows(rows)
	if err != nil {
		return nil, err
	}
	return New(g)
}

// Rows returns the element height.
func (e *Element) Rows() int { return e.rows }

// Cols returns the element width.
func (e *Element) Cols() int { return e.cols }

// Anchor returns the origin (rows/2, cols/2). It is also the border size the
// engine pads with on each side.
func (e *Element) Anchor() (row, col int) {
	return e.rows / 2, e.cols / 2
}

// IsOn reports whether the cell at (row, col) is active.
func (e *Element) IsOn(row, col int) bool {
	if row < 0 || row >= e.rows || col < 0 || col >= e.cols {
		return false
	}
	return e.on[row*e.cols+col]
}

// Offsets returns the active cells in row-major order. The returned slice must
// not be modified.
func (e *Element) Offsets() []Offset {
	return e.offsets
}

// Reflect returns the element mirrored through its anchor.
func (e *Element) Reflect() *Element {
	out := &Element{
		rows:    e.rows,
		cols:    e.cols,
		on:      make([]bool, len(e.on)),
		offsets: make([]Offset, 0, len(e.offsets)),
	}
	// Walking the source backwards keeps the reflected offsets row-major
	for i := len(e.offsets) - 1; i >= 0; i-- {
		o := Offset{Row: e.rows - 1 - e.offsets[i].Row, Col: e.cols - 1 - e.offsets[i].Col}
		out.on[o.Row*out.cols+o.Col] = true
		out.offsets = append(out.offsets, o)
	}
	return out
}

// Symmetric reports whether the element equals its reflection.
func (e *Element) Symmetric() bool {
	for _, o := range e.offsets {
		if !e.IsOn(e.rows-1-o.Row, e.cols-1-o.Col) {
			return false
		}
	}
	return true
}

// Grid returns the element as a 0/1 grid.
func (e *Element) Grid() *grid.Grid {
	g := grid.New(e.cols, e.rows)
	for _, o := range e.offsets {
		g.Set(o.Row, o.Col, 1)
	}
	return g
}

// String renders the element with '#' for active cells and '.' otherwise.
func (e *Element) String() string {
	var sb strings.Builder
	for r := 0; r < e.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < e.cols; c++ {
			if e.on[r*e.cols+c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
