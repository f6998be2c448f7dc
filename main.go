package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/go-chunktrace/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "chunktrace"
	app.Usage = "progressively render triangle scenes using block-based path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render scene",
			Description: `
Load a yaml scene definition and progressively accumulate frames. Each frame
traces one sample per pixel block and folds it into a running average.

The converged image is written as a png file once all frames are rendered.`,
			ArgsUsage: "scene.yaml",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "load settings from a yaml config file; flags override file values",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "frames, f",
					Value: 64,
					Usage: "number of frames to accumulate",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: 3,
					Usage: "max diffuse bounces per path",
				},
				cli.IntFlag{
					Name:  "chunk",
					Value: 10,
					Usage: "pixel block side length",
				},
				cli.IntFlag{
					Name:  "spb",
					Value: 1,
					Usage: "samples per block and frame",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "tonemap",
					Value: "clamp",
					Usage: "tone mapping operator (clamp, reinhard)",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: "number of tracer workers; 0 uses one per cpu",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "seed for the per-block random sources",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block row scheduler (naive, perfect)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderScene,
		},
		{
			Name:      "scene-info",
			Usage:     "print scene statistics",
			ArgsUsage: "scene.yaml",
			Action:    cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
