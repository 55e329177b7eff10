package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/m-mizutani/bundlebump/pkg/cli/config"
	"github.com/m-mizutani/bundlebump/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, w io.Writer) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		bundleCfg config.Bundle
		githubCfg config.GitHub
		logger    *slog.Logger
	)

	var flags []cli.Flag
	flags = append(flags, bundleCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "bundlebump",
		Usage:   "Update a bundle repository after releasing a package",
		Version: types.Version,
		Flags:   flags,
		Writer:  w,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = clog.WithLogger(ctx, clog.New(logger.Handler()))
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runUpdate(ctx, c, &bundleCfg, &githubCfg)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		sentryCfg.Report(err)
		return err
	}

	return nil
}
