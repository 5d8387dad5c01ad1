package morphology

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"morphengine/pkg/grid"
	"morphengine/pkg/structuring"
)

// minParallelWork is the number of probes (pixels × active element cells)
// below which a pass runs on the calling goroutine.
const minParallelWork = 1 << 15

// pass runs one elementary dilation or erosion of src by se.
func (e *Engine) pass(op Operation, src *grid.Grid, se *structuring.Element, passNo int) (*grid.Grid, error) {
	if op != OpDilate && op != OpErode {
		return nil, fmt.Errorf("elementary pass of %v: %w", op, ErrInvalidArgument)
	}

	height, width := src.Height(), src.Width()
	if src.Empty() {
		return grid.New(width, height), nil
	}

	// The anchor doubles as the border size on each side
	borderRows, borderCols := se.Anchor()
	padded, err := src.Pad(borderRows, borderCols, e.border, e.padValue(op))
	if err != nil {
		return nil, fmt.Errorf("failed to pad source: %w", err)
	}

	out := grid.New(width, height)
	offsets := se.Offsets()
	reduce := reducerFor(op)

	probeRow := func(r int) {
		dst := out.Row(r)
		for c := range dst {
			dst[c] = reduce(padded, r, c, offsets)
		}
	}

	log := e.logger.WithFields(logrus.Fields{
		"op":     op.String(),
		"pass":   passNo,
		"width":  width,
		"height": height,
		"kernel": fmt.Sprintf("%dx%d", se.Rows(), se.Cols()),
	})

	switch {
	case e.observer != nil:
		log.Debug("Running observed pass sequentially")
		e.observedPass(op, passNo, padded, out, borderRows, borderCols, offsets, reduce)

	case e.workers <= 1 || height < 2 || width*height*len(offsets) < minParallelWork:
		log.Debug("Running pass sequentially")
		for r := 0; r < height; r++ {
			probeRow(r)
		}

	default:
		workers := min(e.workers, height)
		log.WithField("workers", workers).Debug("Running pass in parallel")

		// Split rows into contiguous bands, one band per task. Each task writes
		// only its own output rows and reads only the padded source.
		band := (height + workers - 1) / workers
		var g errgroup.Group
		g.SetLimit(workers)
		for start := 0; start < height; start += band {
			start := start
			end := min(start+band, height)
			g.Go(func() error {
				for r := start; r < end; r++ {
					probeRow(r)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// observedPass scans in row-major order and reports every probe. The frame
// handed to the observer is a separate progress buffer; probes keep reading
// the untouched padded source.
func (e *Engine) observedPass(op Operation, passNo int, padded, out *grid.Grid, borderRows, borderCols int,
	offsets []structuring.Offset, reduce reducer) {
	frame := padded.Clone()
	for r := 0; r < out.Height(); r++ {
		for c := 0; c < out.Width(); c++ {
			v := reduce(padded, r, c, offsets)
			out.Set(r, c, v)
			frame.Set(r+borderRows, c+borderCols, v)

			e.observer(ProbeStep{
				Op:         op,
				Pass:       passNo,
				Row:        r,
				Col:        c,
				Value:      v,
				Frame:      frame,
				BorderRows: borderRows,
				BorderCols: borderCols,
			})
		}
	}
}

// padValue returns the constant used for the border of an op's pass.
func (e *Engine) padValue(op Operation) uint8 {
	if !e.neutralBorder {
		return e.borderValue
	}
	if op == OpErode {
		return math.MaxUint8
	}
	return 0
}

// reducer computes one output pixel. (r, c) is the output position, which is
// also the top-left corner of the element's window in padded coordinates.
type reducer func(padded *grid.Grid, r, c int, offsets []structuring.Offset) uint8

func reducerFor(op Operation) reducer {
	if op == OpErode {
		return minUnder
	}
	return maxUnder
}

func maxUnder(padded *grid.Grid, r, c int, offsets []structuring.Offset) uint8 {
	var v uint8
	for _, o := range offsets {
		if p := padded.At(r+o.Row, c+o.Col); p > v {
			v = p
			if v == math.MaxUint8 {
				break
			}
		}
	}
	return v
}

func minUnder(padded *grid.Grid, r, c int, offsets []structuring.Offset) uint8 {
	v := uint8(math.MaxUint8)
	for _, o := range offsets {
		if p := padded.At(r+o.Row, c+o.Col); p < v {
			v = p
			if v == 0 {
				break
			}
		}
	}
	return v
}
