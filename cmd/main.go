package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/learnmap/internal/config"
	"github.com/okian/learnmap/pkg/logger"
	"github.com/okian/learnmap/pkg/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "learnmap",
		Short:        "Topic & Skill catalog service",
		Long:         "learnmap serves a catalog of hierarchical learning topics and the skills that belong to them.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides LEARNMAP_CONFIG)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newLoadCheckCmd())
	return root
}

// bootstrap loads configuration and initializes the global logger.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Options{Format: cfg.LogFormat, Output: cmd.ErrOrStderr()}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithLatencyBuckets(cfg.MetricsLatencyBuckets...),
		metrics.WithConstLabels(map[string]string{"storage": cfg.Storage}),
	)
	return cfg, log, nil
}
