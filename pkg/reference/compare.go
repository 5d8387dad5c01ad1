// Package reference validates engine output against a host vision library.
//
// Compare works everywhere. Dilate and Erode call OpenCV through gocv and are
// only available in builds with the "gocv" tag; other builds get
// ErrUnavailable so tooling can skip the live cross-check.
package reference

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"morphengine/pkg/grid"
)

// ErrUnavailable is returned by the library-backed operations when the binary
// was built without OpenCV support.
var ErrUnavailable = errors.New("reference library not available (build with -tags gocv)")

// Report summarizes the pixel differences between two grids.
type Report struct {
	// Differing is the number of pixels whose values are not equal
	Differing int

	// MeanAbsDiff is the mean absolute difference over all pixels
	MeanAbsDiff float64

	// MaxAbsDiff is the largest absolute difference found
	MaxAbsDiff uint8

	// Total is the number of compared pixels
	Total int
}

// Equal reports whether the grids matched pixel for pixel.
func (r Report) Equal() bool {
	return r.Differing == 0
}

// String returns a one-line summary.
func (r Report) String() string {
	if r.Equal() {
		return fmt.Sprintf("images are equal (%d pixels)", r.Total)
	}
	return fmt.Sprintf("images not equal: %d of %d pixels differ (mean |diff| %.4f, max %d)",
		r.Differing, r.Total, r.MeanAbsDiff, r.MaxAbsDiff)
}

// Compare counts the pixels where own and ref differ. Grids must have the same
// dimensions.
func Compare(own, ref *grid.Grid) (Report, error) {
	diff, err := grid.AbsDiff(own, ref)
	if err != nil {
		return Report{}, fmt.Errorf("failed to compare grids: %w", err)
	}

	report := Report{
		Differing: diff.CountNonZero(),
		Total:     diff.Width() * diff.Height(),
	}
	if diff.Empty() {
		return report, nil
	}

	dense := diff.ToDense()
	report.MaxAbsDiff = uint8(mat.Max(dense))
	report.MeanAbsDiff = stat.Mean(dense.RawMatrix().Data, nil)

	return report, nil
}
