package tracer

import (
	"errors"
	"time"
)

var (
	ErrNoSceneData       = errors.New("tracer: no scene data")
	ErrNoCameraData      = errors.New("tracer: no camera data")
	ErrNoAccumulator     = errors.New("tracer: no accumulation buffer")
	ErrTracerClosed      = errors.New("tracer: tracer is closed")
	ErrInvalidBlockRange = errors.New("tracer: block request exceeds the block grid")
)

type UpdateType uint8

const (
	UpdateScene UpdateType = iota
	UpdateCamera
	UpdateAccumulator
)

// A unit of work that is processed by a tracer. It covers a contiguous range
// of block rows; every block in the range receives SamplesPerBlock samples.
type BlockRequest struct {
	// First block row and number of block rows.
	BlockRow  uint32
	BlockRows uint32

	// The number of samples folded into each block.
	SamplesPerBlock uint32

	// Number of frames accumulated so far.
	FrameCount uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics for the last processed block request.
type Stats struct {
	// The rendered block row count
	BlockRows uint32

	// The time for rendering the assigned rows.
	BlockTime time.Duration

	// The time spent applying pending updates.
	UpdateTime time.Duration

	// Path termination counters.
	Paths     uint64
	LightHits uint64
	Misses    uint64
	Absorbed  uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get a relative speed estimate used for the initial block row
	// distribution.
	Speed() uint32

	// Start the tracer worker.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue a scene, camera or accumulator update. Pending updates are
	// applied before processing the next block request.
	Update(UpdateType, interface{})

	// Retrieve last block request statistics.
	Stats() *Stats
}
