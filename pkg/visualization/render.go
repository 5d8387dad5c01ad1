// Package visualization turns probe steps from the morphology engine into
// viewable frames: the padded progress image after each probe, scaled to a
// fixed square size, written either as a numbered image sequence or as a
// video.
package visualization

import (
	"image"

	"github.com/nfnt/resize"

	"morphengine/pkg/grid"
	"morphengine/pkg/morphology"
)

// DefaultFrameSize is the edge length of rendered frames in pixels.
const DefaultFrameSize = 50

// FrameRenderer converts progress frames into square grayscale images.
type FrameRenderer struct {
	// Size is the output edge length in pixels
	Size int

	// Scale multiplies pixel values before resizing; 255 makes 0/1 grids visible
	Scale int

	// Interpolation is the resampling filter used to reach Size
	Interpolation resize.InterpolationFunction

	// Highlight marks the probed pixel with HighlightValue when set
	Highlight      bool
	HighlightValue uint8
}

// NewFrameRenderer returns a renderer producing size×size bicubic frames of
// binary grids.
func NewFrameRenderer(size int) *FrameRenderer {
	if size <= 0 {
		size = DefaultFrameSize
	}
	return &FrameRenderer{
		Size:          size,
		Scale:         255,
		Interpolation: resize.Bicubic,
	}
}

// Render draws the step's frame. The step's grid is not modified.
func (fr *FrameRenderer) Render(step morphology.ProbeStep) image.Image {
	frame := step.Frame.Scale(fr.Scale)
	if fr.Highlight {
		frame.Set(step.Row+step.BorderRows, step.Col+step.BorderCols, fr.HighlightValue)
	}
	return fr.RenderGrid(frame)
}

// RenderGrid resizes an already scaled grid to the renderer's frame size.
func (fr *FrameRenderer) RenderGrid(g *grid.Grid) image.Image {
	return resize.Resize(uint(fr.Size), uint(fr.Size), g.ToImage(), fr.Interpolation)
}
