package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The assigned block rows and the percentage of total frame area they represent.
	BlockRows    uint32
	FramePercent float32

	// Render time for assigned block rows
	RenderTime time.Duration

	// Path termination counters.
	Paths     uint64
	LightHits uint64
	Misses    uint64
	Absorbed  uint64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration

	// Number of frames accumulated since the last reset.
	FrameCount uint32
}
