package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/campushub/internal/config"
	"github.com/yigit/campushub/internal/pkg/logger"
	"github.com/yigit/campushub/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "portal-stub",
		Usage: "run a local enrollment portal for development and tests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   config.DefaultPath,
				EnvVars: []string{"CAMPUSHUB_CONFIG"},
			},
		},
		Action: func(c *cli.Context) error {
			srv, err := server.NewServer(c.Context, c.String("config"), os.Stdout)
			if err != nil {
				return err
			}
			// Run blocks until SIGINT, SIGTERM or cancellation.
			return srv.Run(c.Context)
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		logger.Error().Err(err).Msg("Portal stub failed")
		os.Exit(1)
	}
	logger.Info().Msg("Portal stub stopped")
}
