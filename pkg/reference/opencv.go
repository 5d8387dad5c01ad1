//go:build gocv
// +build gocv

package reference

import (
	"fmt"

	"gocv.io/x/gocv"

	"morphengine/pkg/grid"
	"morphengine/pkg/structuring"
)

// Available reports whether the library-backed operations can run.
func Available() bool { return true }

// Dilate runs cv::dilate with OpenCV's default anchor and border.
func Dilate(g *grid.Grid, se *structuring.Element) (*grid.Grid, error) {
	return run(g, se, func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
		gocv.Dilate(src, dst, kernel)
	})
}

// Erode runs cv::erode with OpenCV's default anchor and border.
func Erode(g *grid.Grid, se *structuring.Element) (*grid.Grid, error) {
	return run(g, se, func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
		gocv.Erode(src, dst, kernel)
	})
}

func run(g *grid.Grid, se *structuring.Element, op func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat)) (*grid.Grid, error) {
	if g == nil || se == nil {
		return nil, fmt.Errorf("nil grid or structuring element: %w", grid.ErrInvalidArgument)
	}
	if g.Empty() {
		return grid.New(g.Width(), g.Height()), nil
	}

	src, err := toMat(g)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernel, err := toMat(se.Grid())
	if err != nil {
		return nil, err
	}
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	op(src, &dst, kernel)
	if dst.Empty() {
		return nil, fmt.Errorf("opencv returned an empty result")
	}

	return fromMat(dst)
}

func toMat(g *grid.Grid) (gocv.Mat, error) {
	m, err := gocv.NewMatFromBytes(g.Height(), g.Width(), gocv.MatTypeCV8U, g.Values())
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert grid to mat: %w", err)
	}
	return m, nil
}

func fromMat(m gocv.Mat) (*grid.Grid, error) {
	rows, cols := m.Rows(), m.Cols()
	data, err := m.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("failed to read mat data: %w", err)
	}

	out := grid.New(cols, rows)
	for r := 0; r < rows; r++ {
		copy(out.Row(r), data[r*cols:(r+1)*cols])
	}
	return out, nil
}
