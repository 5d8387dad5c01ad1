package visualization

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"morphengine/pkg/grid"
	"morphengine/pkg/imageio"
	"morphengine/pkg/morphology"
)

// FrameRecorder writes every probe step as a numbered PNG file. Use Observe as
// the engine's observer. The first write error stops recording and is
// reported by Err.
type FrameRecorder struct {
	dir      string
	renderer *FrameRenderer
	logger   logrus.FieldLogger

	mu     sync.Mutex
	frames int
	err    error
}

// NewFrameRecorder creates the output directory and returns a recorder.
func NewFrameRecorder(dir string, renderer *FrameRenderer, logger logrus.FieldLogger) (*FrameRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	if renderer == nil {
		renderer = NewFrameRenderer(DefaultFrameSize)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FrameRecorder{
		dir:      dir,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Observe renders and saves one step. It matches morphology.Observer.
func (fr *FrameRecorder) Observe(step morphology.ProbeStep) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.err != nil {
		return
	}

	fr.frames++
	name := filepath.Join(fr.dir, fmt.Sprintf("frame_%05d.png", fr.frames))
	if err := fr.writeFrame(name, step); err != nil {
		fr.err = fmt.Errorf("failed to write frame %d: %w", fr.frames, err)
		fr.logger.WithError(err).WithField("frame", fr.frames).Warn("Stopping frame recording")
	}
}

// Frames returns the number of frames written or attempted.
func (fr *FrameRecorder) Frames() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.frames
}

// Err returns the first write error, if any.
func (fr *FrameRecorder) Err() error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.err
}

// SaveGrid writes g into the recorder's directory under name, scaled like the
// rendered frames but at its own resolution. It does not count as a frame.
func (fr *FrameRecorder) SaveGrid(name string, g *grid.Grid) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid file name %q: %w", name, grid.ErrInvalidArgument)
	}

	path := filepath.Join(fr.dir, name)
	if err := imageio.Save(path, g, fr.renderer.Scale); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	fr.logger.WithField("path", path).Debug("Saved grid")
	return nil
}

func (fr *FrameRecorder) writeFrame(name string, step morphology.ProbeStep) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, fr.renderer.Render(step)); err != nil {
		return err
	}
	return file.Close()
}
