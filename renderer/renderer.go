package renderer

import (
	"image"

	"github.com/achilleasa/go-chunktrace/accumulator"
	"github.com/achilleasa/go-chunktrace/scene"
)

type Renderer interface {
	// Render the next frame and fold it into the accumulation buffer.
	Render() error

	// Change the frame dimensions. Accumulated data is discarded.
	Resize(frameW, frameH uint32) error

	// Discard accumulated data.
	Reset()

	// Replace the camera. Accumulated data is discarded.
	UpdateCamera(camera *scene.Camera)

	// Get a copy of the tone-mapped frame produced by the last Render call.
	// Later Render calls do not modify the returned image.
	Frame() *image.RGBA

	// Get the accumulation buffer.
	Accumulator() *accumulator.Buffer

	// Number of frames accumulated since the last reset.
	FrameCount() uint32

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
