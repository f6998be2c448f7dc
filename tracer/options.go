package tracer

// Path tracing options. All values are fixed for the lifetime of a tracer.
type Options struct {
	// Max number of diffuse bounces per path.
	BounceLimit uint32

	// Hits closer than this distance to a ray origin are ignored.
	RayEpsilon float32

	// Rays whose Möller–Trumbore determinant magnitude is below this value
	// are considered parallel to the triangle plane.
	ParallelEpsilon float32
}

// Get the default tracing options.
func DefaultOptions() Options {
	return Options{
		BounceLimit:     3,
		RayEpsilon:      0.01,
		ParallelEpsilon: 1e-7,
	}
}
