package cmd

import (
	"github.com/achilleasa/go-chunktrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("chunktrace")

// Apply the configured log level unless it is overridden by the global
// verbosity flags.
func setupLogging(ctx *cli.Context, configLevel string) {
	if configLevel != "" {
		level, err := log.ParseLevel(configLevel)
		if err != nil {
			logger.Warning(err)
		} else {
			log.SetLevel(level)
		}
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
