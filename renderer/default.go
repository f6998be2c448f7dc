package renderer

import (
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/go-chunktrace/accumulator"
	"github.com/achilleasa/go-chunktrace/log"
	"github.com/achilleasa/go-chunktrace/scene"
	"github.com/achilleasa/go-chunktrace/tracer"
)

// The default renderer splits each frame into block rows, distributes them
// to a pool of cpu tracers and waits for all of them to complete before
// running the post-processing pipeline.
type defaultRenderer struct {
	logger log.Logger

	// Guards all renderer state.
	sync.Mutex

	scene     *scene.Scene
	camera    *scene.Camera
	scheduler tracer.BlockScheduler
	pipeline  *Pipeline
	options   Options

	tracers          []tracer.Tracer
	blockAssignments []uint32

	accum      *accumulator.Buffer
	frame      *image.RGBA
	frameCount uint32

	stats FrameStats

	// Channels for receiving tracer completion notifications.
	doneChan chan uint32
	errChan  chan error
}

// Create a new default renderer using the specified block scheduler and
// post-processing pipeline. The camera projection is set up to match the
// frame aspect ratio.
func NewDefault(sc *scene.Scene, camera *scene.Camera, scheduler tracer.BlockScheduler, pipeline *Pipeline, opts Options) (Renderer, error) {
	switch {
	case sc == nil:
		return nil, ErrSceneNotDefined
	case camera == nil:
		return nil, ErrCameraNotDefined
	case opts.FrameW == 0 || opts.FrameH == 0:
		return nil, fmt.Errorf("%w; got %dx%d", ErrInvalidFrameDims, opts.FrameW, opts.FrameH)
	}

	if opts.NumWorkers == 0 {
		opts.NumWorkers = uint32(runtime.NumCPU())
	}
	if opts.SamplesPerBlock == 0 {
		opts.SamplesPerBlock = 1
	}
	if pipeline == nil {
		pipeline = DefaultPipeline(ClampToneMap(1.0))
	}

	accum, err := accumulator.New(int(opts.FrameW), int(opts.FrameH), int(opts.ChunkSize), opts.Seed)
	if err != nil {
		return nil, err
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		camera:    camera,
		scheduler: scheduler,
		pipeline:  pipeline,
		options:   opts,
		accum:     accum,
		frame:     image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		doneChan:  make(chan uint32, opts.NumWorkers),
		errChan:   make(chan error, opts.NumWorkers),
	}

	r.camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	err = r.initTracers()
	if err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// Spin up the tracer pool and upload the scene state.
func (r *defaultRenderer) initTracers() error {
	tracerOpts := r.options.tracerOptions()
	for idx := uint32(0); idx < r.options.NumWorkers; idx++ {
		tr := tracer.NewCPUTracer(fmt.Sprintf("cpu-%02d", idx), tracerOpts)
		if err := tr.Init(); err != nil {
			return err
		}

		tr.Update(tracer.UpdateScene, r.scene)
		tr.Update(tracer.UpdateCamera, r.camera)
		tr.Update(tracer.UpdateAccumulator, r.accum)
		r.tracers = append(r.tracers, tr)
	}

	r.logger.Infof("initialized %d tracer(s) for a %dx%d frame with %d block rows", len(r.tracers), r.options.FrameW, r.options.FrameH, r.accum.BlockRows())
	return nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Render the next frame and fold it into the accumulation buffer.
func (r *defaultRenderer) Render() error {
	r.Lock()
	defer r.Unlock()

	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	if r.options.MaxFrames != 0 && r.frameCount >= r.options.MaxFrames {
		r.logger.Debugf("accumulated %d frames; skipping render", r.frameCount)
		return nil
	}

	start := time.Now()
	blockRows := uint32(r.accum.BlockRows())
	r.blockAssignments = r.scheduler.Schedule(r.tracers, blockRows)

	// Enqueue work units
	var blockRow uint32
	var pending int
	for idx, rows := range r.blockAssignments {
		if rows == 0 {
			continue
		}

		r.tracers[idx].Enqueue(tracer.BlockRequest{
			BlockRow:        blockRow,
			BlockRows:       rows,
			SamplesPerBlock: r.options.SamplesPerBlock,
			FrameCount:      r.frameCount,
			DoneChan:        r.doneChan,
			ErrChan:         r.errChan,
		})
		blockRow += rows
		pending++
	}

	// Wait for all tracers to finish
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case tracerErr := <-r.errChan:
			if err == nil {
				err = tracerErr
			}
		}
	}
	if err != nil {
		return err
	}

	r.frameCount++

	// Run post-process stages
	state := &FrameState{
		Accumulator: r.accum,
		Image:       r.frame,
		FrameCount:  r.frameCount,
	}
	for _, stage := range r.pipeline.PostProcess {
		if _, err = stage(state); err != nil {
			return err
		}
	}

	r.updateStats(time.Since(start))
	r.logger.Debugf("frame %d rendered in %s", r.frameCount, r.stats.RenderTime)
	return nil
}

// Change the frame dimensions. Accumulated data is discarded.
func (r *defaultRenderer) Resize(frameW, frameH uint32) error {
	r.Lock()
	defer r.Unlock()

	if frameW == 0 || frameH == 0 {
		return fmt.Errorf("%w; got %dx%d", ErrInvalidFrameDims, frameW, frameH)
	}

	err := r.accum.Resize(int(frameW), int(frameH))
	if err != nil {
		return err
	}

	r.options.FrameW = frameW
	r.options.FrameH = frameH
	r.frame = image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))
	r.camera.SetupProjection(float32(frameW) / float32(frameH))
	r.frameCount = 0
	r.stats = FrameStats{}

	r.logger.Infof("resized frame to %dx%d with %d block rows", frameW, frameH, r.accum.BlockRows())
	return nil
}

// Discard accumulated data.
func (r *defaultRenderer) Reset() {
	r.Lock()
	defer r.Unlock()
	r.reset()
}

func (r *defaultRenderer) reset() {
	r.accum.Reset()
	r.frameCount = 0
	r.logger.Debug("accumulation buffer reset")
}

// Replace the camera and discard accumulated data.
func (r *defaultRenderer) UpdateCamera(camera *scene.Camera) {
	r.Lock()
	defer r.Unlock()

	if camera == nil {
		r.logger.Warning("ignoring camera update without a camera")
		return
	}

	r.camera = camera
	r.camera.SetupProjection(float32(r.options.FrameW) / float32(r.options.FrameH))
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateCamera, camera)
	}
	r.reset()
}

// Get a copy of the tone-mapped frame produced by the last Render call.
func (r *defaultRenderer) Frame() *image.RGBA {
	r.Lock()
	defer r.Unlock()

	frame := image.NewRGBA(r.frame.Rect)
	copy(frame.Pix, r.frame.Pix)
	return frame
}

// Get the accumulation buffer.
func (r *defaultRenderer) Accumulator() *accumulator.Buffer {
	return r.accum
}

// Number of frames accumulated since the last reset.
func (r *defaultRenderer) FrameCount() uint32 {
	r.Lock()
	defer r.Unlock()
	return r.frameCount
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Collect tracer statistics for the last frame.
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	blockRows := float32(r.accum.BlockRows())

	r.stats.Tracers = make([]TracerStat, 0, len(r.tracers))
	for idx, tr := range r.tracers {
		rows := r.blockAssignments[idx]
		stat := TracerStat{
			Id:           tr.Id(),
			BlockRows:    rows,
			FramePercent: 100.0 * float32(rows) / blockRows,
		}
		if rows != 0 {
			trStats := tr.Stats()
			stat.RenderTime = trStats.BlockTime
			stat.Paths = trStats.Paths
			stat.LightHits = trStats.LightHits
			stat.Misses = trStats.Misses
			stat.Absorbed = trStats.Absorbed
		}
		r.stats.Tracers = append(r.stats.Tracers, stat)
	}
	r.stats.RenderTime = renderTime
	r.stats.FrameCount = r.frameCount
}
