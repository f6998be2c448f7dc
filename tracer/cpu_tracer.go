package tracer

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/go-chunktrace/accumulator"
	"github.com/achilleasa/go-chunktrace/log"
	"github.com/achilleasa/go-chunktrace/scene"
)

// A tracer that renders its assigned block rows on a dedicated goroutine.
type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	opts Options

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block request.
	stats *Stats

	// State owned by the worker goroutine.
	sceneData  *scene.Scene
	camera     *scene.Camera
	accum      *accumulator.Buffer
	pathTracer *PathTracer
}

// Create a new cpu tracer.
func NewCPUTracer(id string, opts Options) Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		opts:         opts,
		updateBuffer: make(map[UpdateType]interface{}),
		stats:        &Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers share the same speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

// Initialize tracer and start the worker goroutine.
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		return nil
	}

	tr.blockReqChan = make(chan BlockRequest)
	tr.closeChan = make(chan struct{})
	tr.startWorker()
	tr.logger.Debug("worker started")
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	if closeChan == nil {
		return
	}

	// The worker may still need the lock to commit pending updates
	close(closeChan)
	tr.wg.Wait()
	tr.logger.Debug("worker stopped")
}

// Enqueue block request. The call blocks until the worker picks up the
// request; requests sent to a closed tracer fail with ErrTracerClosed.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.Lock()
	closeChan := tr.closeChan
	tr.Unlock()

	if closeChan == nil {
		blockReq.ErrChan <- ErrTracerClosed
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	case <-closeChan:
		blockReq.ErrChan <- ErrTracerClosed
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.updateBuffer[updateType] = data
}

// Retrieve last block request statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	defer tr.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case UpdateScene:
			tr.sceneData = data.(*scene.Scene)
			tr.pathTracer = NewPathTracer(tr.sceneData, tr.opts)
		case UpdateCamera:
			tr.camera = data.(*scene.Camera)
		case UpdateAccumulator:
			tr.accum = data.(*accumulator.Buffer)
		default:
			return fmt.Errorf("tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[UpdateType]interface{})
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	closeChan := tr.closeChan
	blockReqChan := tr.blockReqChan

	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		for {
			select {
			case blockReq := <-blockReqChan:
				startTime := time.Now()
				err := tr.commitUpdates()
				if err != nil {
					tr.resetStats()
					blockReq.ErrChan <- err
					continue
				}
				tr.stats.UpdateTime = time.Since(startTime)

				// Render block rows and reply with our completion status
				startTime = time.Now()
				err = tr.renderBlocks(&blockReq)
				if err != nil {
					tr.resetStats()
					blockReq.ErrChan <- err
					continue
				}

				tr.stats.BlockRows = blockReq.BlockRows
				tr.stats.BlockTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockRows
			case <-closeChan:
				return
			}
		}
	}()
}

// Failed requests must not leave timings behind for the block scheduler.
func (tr *cpuTracer) resetStats() {
	*tr.stats = Stats{}
}

// Render the block rows of a request into the accumulation buffer.
func (tr *cpuTracer) renderBlocks(blockReq *BlockRequest) error {
	switch {
	case tr.sceneData == nil:
		return ErrNoSceneData
	case tr.camera == nil:
		return ErrNoCameraData
	case tr.accum == nil:
		return ErrNoAccumulator
	case int(blockReq.BlockRow+blockReq.BlockRows) > tr.accum.BlockRows():
		return fmt.Errorf("%w: rows [%d, %d) requested; grid has %d rows", ErrInvalidBlockRange, blockReq.BlockRow, blockReq.BlockRow+blockReq.BlockRows, tr.accum.BlockRows())
	}

	stats := Stats{}
	frameW, frameH := tr.accum.Width(), tr.accum.Height()
	lastRow := int(blockReq.BlockRow + blockReq.BlockRows)
	for row := int(blockReq.BlockRow); row < lastRow; row++ {
		for _, block := range tr.accum.RowBlocks(row) {
			sampler := NewSampler(block.Random)
			for sample := uint32(0); sample < blockReq.SamplesPerBlock; sample++ {
				u, v := sampler.BlockPoint(block.Bounds, frameW, frameH)
				ray := sampler.CameraRay(tr.camera, u, v)
				color, info := tr.pathTracer.TracePath(ray, tr.opts.BounceLimit, sampler)
				tr.accum.Fold(block, color)

				stats.Paths++
				switch info.Termination {
				case LightHit:
					stats.LightHits++
				case Miss:
					stats.Misses++
				case Absorbed:
					stats.Absorbed++
				}
			}
		}
	}

	tr.stats.Paths = stats.Paths
	tr.stats.LightHits = stats.LightHits
	tr.stats.Misses = stats.Misses
	tr.stats.Absorbed = stats.Absorbed
	return nil
}
