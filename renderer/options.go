package renderer

import "github.com/achilleasa/go-chunktrace/tracer"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of diffuse bounces.
	NumBounces uint32

	// Pixel block side length.
	ChunkSize uint32

	// Number of samples folded into each block per frame.
	SamplesPerBlock uint32

	// Intersection tolerances.
	RayEpsilon      float32
	ParallelEpsilon float32

	// Number of tracer workers. If set to 0, one worker per cpu is used.
	NumWorkers uint32

	// Seed for the per-block random sources.
	Seed int64

	// Stop accumulating after this many frames. If set to 0, every call to
	// Render adds a frame.
	MaxFrames uint32
}

// Get the default renderer options.
func DefaultOptions() Options {
	tracerOpts := tracer.DefaultOptions()
	return Options{
		FrameW:          512,
		FrameH:          512,
		NumBounces:      tracerOpts.BounceLimit,
		ChunkSize:       10,
		SamplesPerBlock: 1,
		RayEpsilon:      tracerOpts.RayEpsilon,
		ParallelEpsilon: tracerOpts.ParallelEpsilon,
		Seed:            1,
	}
}

func (opts Options) tracerOptions() tracer.Options {
	return tracer.Options{
		BounceLimit:     opts.NumBounces,
		RayEpsilon:      opts.RayEpsilon,
		ParallelEpsilon: opts.ParallelEpsilon,
	}
}
