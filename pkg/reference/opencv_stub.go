//go:build !gocv
// +build !gocv

package reference

import (
	"morphengine/pkg/grid"
	"morphengine/pkg/structuring"
)

// Available reports whether the library-backed operations can run.
func Available() bool { return false }

// Dilate returns ErrUnavailable in builds without OpenCV.
func Dilate(*grid.Grid, *structuring.Element) (*grid.Grid, error) {
	return nil, ErrUnavailable
}

// Erode returns ErrUnavailable in builds without OpenCV.
func Erode(*grid.Grid, *structuring.Element) (*grid.Grid, error) {
	return nil, ErrUnavailable
}
