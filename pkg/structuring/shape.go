package structuring

import (
	"fmt"
	"math"
	"strings"

	"morphengine/pkg/grid"
)

// Shape identifies one of the standard generated elements.
type Shape int

const (
	// Rect activates every cell.
	Rect Shape = iota

	// Cross activates the anchor row and the anchor column.
	Cross

	// Ellipse activates the cells inside the ellipse inscribed in the element.
	Ellipse
)

// String returns the config name of the shape.
func (s Shape) String() string {
	switch s {
	case Rect:
		return "rect"
	case Cross:
		return "cross"
	case Ellipse:
		return "ellipse"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape converts a config name ("rect", "cross", "ellipse") into a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rect", "rectangle":
		return Rect, nil
	case "cross":
		return Cross, nil
	case "ellipse":
		return Ellipse, nil
	default:
		return Rect, fmt.Errorf("unknown structuring element shape %q: %w", name, grid.ErrInvalidArgument)
	}
}

// Make generates a rows×cols element of the given shape. The layouts match the
// ones produced by OpenCV's getStructuringElement with a centered anchor, so
// results can be compared pixel for pixel against the library.
func Make(shape Shape, rows, cols int) (*Element, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("structuring element size must be positive, got %dx%d: %w",
			rows, cols, grid.ErrInvalidArgument)
	}

	g := grid.New(cols, rows)
	anchorRow, anchorCol := rows/2, cols/2

	// A single-pixel element is a rectangle regardless of the requested shape
	if rows == 1 && cols == 1 {
		shape = Rect
	}

	switch shape {
	case Rect:
		g.Fill(1)

	case Cross:
		for c := 0; c < cols; c++ {
			g.Set(anchorRow, c, 1)
		}
		for r := 0; r < rows; r++ {
			g.Set(r, anchorCol, 1)
		}

	case Ellipse:
		radiusR := rows / 2
		radiusC := cols / 2
		invR2 := 0.0
		if radiusR > 0 {
			invR2 = 1.0 / float64(radiusR*radiusR)
		}

		for r := 0; r < rows; r++ {
			dy := r - radiusR
			if abs(dy) > radiusR {
				continue
			}
			// Half-width of the ellipse chord on this row
			dx := int(math.RoundToEven(float64(radiusC) * math.Sqrt(float64(radiusR*radiusR-dy*dy)*invR2)))
			start := max(radiusC-dx, 0)
			end := min(radiusC+dx+1, cols)
			for c := start; c < end; c++ {
				g.Set(r, c, 1)
			}
		}

	default:
		return nil, fmt.Errorf("unsupported shape %v: %w", shape, grid.ErrInvalidArgument)
	}

	return New(g)
}

// MustMake is like Make but panics on invalid arguments.
func MustMake(shape Shape, rows, cols int) *Element {
	e, err := Make(shape, rows, cols)
	if err != nil {
		panic(err)
	}
	return e
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
