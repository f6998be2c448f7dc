package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/go-chunktrace/config"
	"github.com/achilleasa/go-chunktrace/renderer"
	"github.com/achilleasa/go-chunktrace/scene/reader"
	"github.com/achilleasa/go-chunktrace/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a scene for a fixed number of frames and save the converged image.
func RenderScene(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg.LogLevel)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	res, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	var scheduler tracer.BlockScheduler
	switch cfg.Scheduler {
	case "naive":
		scheduler = tracer.NaiveScheduler()
	default:
		scheduler = tracer.PerfectScheduler()
	}

	toneMapper, _ := renderer.ToneMapperByName(cfg.ToneMap, cfg.Exposure)

	// Setup post-processing pipeline; the image is only written once all
	// frames have been accumulated.
	pipeline := renderer.DefaultPipeline(toneMapper)
	pipeline.PostProcess = append(pipeline.PostProcess, renderer.SaveFrameBuffer(ctx.String("out"), uint32(cfg.Frames)))

	opts := renderer.Options{
		FrameW:          uint32(cfg.Width),
		FrameH:          uint32(cfg.Height),
		NumBounces:      uint32(cfg.Bounces),
		ChunkSize:       uint32(cfg.Chunk),
		SamplesPerBlock: uint32(cfg.SamplesPerBlock),
		RayEpsilon:      cfg.RayEpsilon,
		ParallelEpsilon: cfg.ParallelEpsilon,
		NumWorkers:      uint32(cfg.Workers),
		Seed:            cfg.Seed,
		MaxFrames:       uint32(cfg.Frames),
	}

	r, err := renderer.NewDefault(res.Scene, res.Camera, scheduler, pipeline, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %d frame(s) at %dx%d", cfg.Frames, cfg.Width, cfg.Height)
	for frame := 0; frame < cfg.Frames; frame++ {
		if err = r.Render(); err != nil {
			return err
		}
		logger.Infof("frame %d/%d done in %s", frame+1, cfg.Frames, r.Stats().RenderTime)
	}

	// Display stats
	displayFrameStats(r.Stats())
	accumStats := r.Accumulator().Stats()
	logger.Noticef("accumulated samples per pixel: min %d, max %d, mean %3.1f", accumStats.MinSamples, accumStats.MaxSamples, accumStats.MeanSamples)
	logger.Noticef("wrote %s", ctx.String("out"))

	return nil
}

// Load the config file (if specified) and apply command line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cfgFile := ctx.String("config"); cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("frames") {
		cfg.Frames = ctx.Int("frames")
	}
	if ctx.IsSet("bounces") {
		cfg.Bounces = ctx.Int("bounces")
	}
	if ctx.IsSet("chunk") {
		cfg.Chunk = ctx.Int("chunk")
	}
	if ctx.IsSet("spb") {
		cfg.SamplesPerBlock = ctx.Int("spb")
	}
	if ctx.IsSet("exposure") {
		cfg.Exposure = float32(ctx.Float64("exposure"))
	}
	if ctx.IsSet("tonemap") {
		cfg.ToneMap = ctx.String("tonemap")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("scheduler") {
		cfg.Scheduler = ctx.String("scheduler")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block rows", "% of frame", "Paths", "Light hits", "Misses", "Absorbed", "Render time"})
	var paths uint64
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockRows),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Paths),
			fmt.Sprintf("%d", stat.LightHits),
			fmt.Sprintf("%d", stat.Misses),
			fmt.Sprintf("%d", stat.Absorbed),
			stat.RenderTime.String(),
		})
		paths += stat.Paths
	}
	table.SetFooter([]string{"", "", "", fmt.Sprintf("%d", paths), "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame %d statistics\n%s", stats.FrameCount, buf.String())
}
