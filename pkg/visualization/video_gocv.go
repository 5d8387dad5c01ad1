//go:build gocv
// +build gocv

package visualization

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"morphengine/pkg/morphology"
)

// DefaultCodec and DefaultFPS match the format of the scratch videos the
// morphology demo produced.
const (
	DefaultCodec = "FMP4"
	DefaultFPS   = 10.0
)

// VideoSink writes every probe step as a three-channel video frame.
type VideoSink struct {
	writer   *gocv.VideoWriter
	renderer *FrameRenderer
	logger   logrus.FieldLogger

	mu     sync.Mutex
	frames int
	err    error
}

// NewVideoSink opens a video file for writing.
func NewVideoSink(path, codec string, fps float64, renderer *FrameRenderer, logger logrus.FieldLogger) (*VideoSink, error) {
	if renderer == nil {
		renderer = NewFrameRenderer(DefaultFrameSize)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if codec == "" {
		codec = DefaultCodec
	}
	if fps <= 0 {
		fps = DefaultFPS
	}

	writer, err := gocv.VideoWriterFile(path, codec, fps, renderer.Size, renderer.Size, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open video writer: %w", err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("video writer for %s did not open", path)
	}

	return &VideoSink{writer: writer, renderer: renderer, logger: logger}, nil
}

// Observe renders one step and appends it to the video. It matches
// morphology.Observer.
func (vs *VideoSink) Observe(step morphology.ProbeStep) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.err != nil {
		return
	}

	// Gray frames are replicated into three channels for the color writer
	frame, err := gocv.ImageToMatRGB(vs.renderer.Render(step))
	if err != nil {
		vs.fail(err)
		return
	}
	defer frame.Close()

	if err := vs.writer.Write(frame); err != nil {
		vs.fail(err)
		return
	}
	vs.frames++
}

// Frames returns the number of frames written.
func (vs *VideoSink) Frames() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.frames
}

// Close releases the writer and returns the first write error, if any.
func (vs *VideoSink) Close() error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if err := vs.writer.Close(); err != nil && vs.err == nil {
		vs.err = err
	}
	return vs.err
}

func (vs *VideoSink) fail(err error) {
	vs.err = fmt.Errorf("failed to write video frame %d: %w", vs.frames+1, err)
	vs.logger.WithError(err).Warn("Stopping video recording")
}
