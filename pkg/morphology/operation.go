package morphology

import (
	"fmt"
	"strings"

	"morphengine/pkg/grid"
)

// Operation selects a morphological operation.
type Operation int

const (
	OpDilate Operation = iota
	OpErode
	OpOpen  // erode then dilate
	OpClose // dilate then erode
)

// String returns the lower-case operation name.
func (op Operation) String() string {
	switch op {
	case OpDilate:
		return "dilate"
	case OpErode:
		return "erode"
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	default:
		return fmt.Sprintf("Operation(%d)", int(op))
	}
}

// ParseOperation converts a name such as "dilate" into an Operation.
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dilate", "dilation":
		return OpDilate, nil
	case "erode", "erosion":
		return OpErode, nil
	case "open", "opening":
		return OpOpen, nil
	case "close", "closing":
		return OpClose, nil
	default:
		return OpDilate, fmt.Errorf("unknown operation %q: %w", name, ErrInvalidArgument)
	}
}

// ProbeStep describes one probe of an elementary dilation or erosion pass.
type ProbeStep struct {
	// Op is OpDilate or OpErode; open and close report their elementary passes
	Op Operation

	// Pass is the iteration of Op that produced this step, starting at 1
	Pass int

	// Row and Col locate the probed pixel in unpadded coordinates
	Row, Col int

	// Value is the result written for this pixel
	Value uint8

	// Frame is the padded progress image: the padded source with every result
	// computed so far in this pass written over it. It is only valid during the
	// callback and must not be modified.
	Frame *grid.Grid

	// BorderRows and BorderCols give the padding around Frame
	BorderRows, BorderCols int
}

// Observer receives probe steps. It runs on the calling goroutine and cannot
// influence the computed values.
type Observer func(step ProbeStep)
