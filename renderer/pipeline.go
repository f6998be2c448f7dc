package renderer

import (
	"image"
	"image/png"
	"os"
	"time"

	"github.com/achilleasa/go-chunktrace/accumulator"
)

// The state handed to post-processing stages after a frame completes.
type FrameState struct {
	Accumulator *accumulator.Buffer

	// The output image. Its bounds always match the accumulator dims.
	Image *image.RGBA

	// Number of frames accumulated since the last reset.
	FrameCount uint32
}

// An alias for functions that can be used as part of the rendering pipeline.
type PipelineStage func(state *FrameState) (time.Duration, error)

// The list of pluggable stages that are executed after each frame.
type Pipeline struct {
	// A set of post-processing stages that are executed prior to
	// presenting the final frame.
	PostProcess []PipelineStage
}

// Create a pipeline that tone-maps the accumulation buffer into the output image.
func DefaultPipeline(toneMapper ToneMapper) *Pipeline {
	return &Pipeline{
		PostProcess: []PipelineStage{
			ToneMap(toneMapper),
		},
	}
}

// Convert the accumulated radiance into displayable colors.
func ToneMap(toneMapper ToneMapper) PipelineStage {
	return func(state *FrameState) (time.Duration, error) {
		start := time.Now()

		pixels := state.Accumulator.Pixels()
		im := state.Image
		for idx, c := range pixels {
			rgba := toneMapper(c)
			off := idx * 4
			im.Pix[off] = rgba.R
			im.Pix[off+1] = rgba.G
			im.Pix[off+2] = rgba.B
			im.Pix[off+3] = rgba.A
		}

		return time.Since(start), nil
	}
}

// Write the output image to a png file every n frames. If n is 0 the image
// is written after every frame.
func SaveFrameBuffer(imgFile string, n uint32) PipelineStage {
	return func(state *FrameState) (time.Duration, error) {
		if n > 0 && state.FrameCount%n != 0 {
			return 0, nil
		}

		start := time.Now()

		f, err := os.Create(imgFile)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		return time.Since(start), png.Encode(f, state.Image)
	}
}
