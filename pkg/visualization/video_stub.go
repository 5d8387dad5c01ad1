//go:build !gocv
// +build !gocv

package visualization

import (
	"github.com/sirupsen/logrus"

	"morphengine/pkg/morphology"
	"morphengine/pkg/reference"
)

// DefaultCodec and DefaultFPS match the format of the scratch videos the
// morphology demo produced.
const (
	DefaultCodec = "FMP4"
	DefaultFPS   = 10.0
)

// VideoSink is unavailable in builds without OpenCV.
type VideoSink struct{}

// NewVideoSink always fails in builds without OpenCV.
func NewVideoSink(path, codec string, fps float64, renderer *FrameRenderer, logger logrus.FieldLogger) (*VideoSink, error) {
	return nil, reference.ErrUnavailable
}

// Observe does nothing.
func (vs *VideoSink) Observe(morphology.ProbeStep) {}

// Frames always returns zero.
func (vs *VideoSink) Frames() int { return 0 }

// Close does nothing.
func (vs *VideoSink) Close() error { return nil }
