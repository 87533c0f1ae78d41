package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yigit/campushub/internal/bootstrap"
	"github.com/yigit/campushub/internal/config"
	"github.com/yigit/campushub/internal/pkg/logger"
	"github.com/yigit/campushub/internal/shell"
)

func main() {
	app := &cli.App{
		Name:      "campushub",
		Usage:     "campus enrollment portal client",
		ArgsUsage: "[command [args...]]",
		Description: "Without arguments an interactive session is started. " +
			"Otherwise the arguments are run as a single command, e.g. \"campushub open /courses\".",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   config.DefaultPath,
				EnvVars: []string{"CAMPUSHUB_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "portal API base URL, overrides client.base_url",
			},
			&cli.StringFlag{
				Name:  "session-file",
				Usage: "where the session credential is kept, overrides client.session_file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn, error or disabled",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	if c.IsSet("api-url") {
		cfg.Client.BaseURL = c.String("api-url")
	}
	if c.IsSet("session-file") {
		cfg.Client.SessionFile = c.String("session-file")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format, os.Stderr))

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	opts := shell.Options{
		In:     os.Stdin,
		Out:    os.Stdout,
		Prompt: interactive,
	}
	if interactive {
		opts.ReadPassword = readPassword
	}

	client, err := bootstrap.BuildClient(cfg, opts, lgr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.NArg() == 0 {
		return client.App.Run(ctx)
	}
	return client.App.RunArgs(ctx, c.Args().Slice())
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stdout, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
