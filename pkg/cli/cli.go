// Package cli is the command-line entry point of the bot
package cli

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wicket-bot/wicket/pkg/cli/config"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	// local .env is optional
	_ = godotenv.Load()

	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "wicket",
		Usage:   "Discord ticket and moderation bot",
		Version: "0.1.0",
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
