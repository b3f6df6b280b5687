package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"emprecords/internal/app/server"
	"emprecords/internal/platform/config"
	"emprecords/internal/platform/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "emprecords",
		Short:         "Employee records and compensation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newSeedCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, logger, err := bootstrap(ctx, nil)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			defer closeApp(app, logger)

			return app.Serve(ctx)
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the seed employees into an empty store and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, logger, err := bootstrap(cmd.Context(), func(cfg *config.Config) {
				cfg.RunSeed = false
				if file != "" {
					cfg.SeedFile = file
				}
			})
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			defer closeApp(app, logger)

			inserted, err := app.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d employees\n", inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed file (defaults to SEED_FILE)")
	return cmd
}

func bootstrap(ctx context.Context, override func(*config.Config)) (*server.App, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(&cfg)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)

	app, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return nil, nil, err
	}
	return app, logger, nil
}

func closeApp(app *server.App, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer cancel()
	if err := app.Close(ctx); err != nil {
		logger.Warn("close failed", zap.Error(err))
	}
}
