package cmd

import (
	"errors"

	"github.com/achilleasa/go-chunktrace/scene/reader"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx, "")

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	res, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", res.Scene.Stats())
	if res.Camera != nil {
		res.Camera.SetupProjection(1.0)
		logger.Noticef("camera at %v looking at %v (fov %3.1f)\n%s", res.Camera.Position, res.Camera.LookAt, res.Camera.FOV, res.Camera.Frustrum)
	} else {
		logger.Warning("scene does not define a camera")
	}

	return nil
}
