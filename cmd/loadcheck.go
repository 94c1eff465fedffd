package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/learnmap/internal/loadcheck"
	"github.com/okian/learnmap/pkg/logger"
)

func newLoadCheckCmd() *cobra.Command {
	cfg := loadcheck.Config{}
	cmd := &cobra.Command{
		Use:   "loadcheck",
		Short: "Drive a running service with concurrent writers and verify integrity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.Options{Output: cmd.ErrOrStderr()}); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			stats, err := loadcheck.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "topics=%d skills=%d conflicts=%d deleted=%d failed=%d duration=%s\n",
				stats.TopicsCreated, stats.SkillsCreated, stats.Conflicts, stats.Deleted, stats.Failed, stats.Duration)
			if stats.Failed > 0 {
				return fmt.Errorf("%d requests failed", stats.Failed)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:5000", "Base URL of the service")
	f.IntVar(&cfg.Topics, "topics", loadcheck.DefaultTopics, "Number of topics to create")
	f.IntVar(&cfg.Skills, "skills", loadcheck.DefaultSkills, "Skills to create under each topic")
	f.IntVar(&cfg.Workers, "workers", loadcheck.DefaultWorkers, "Number of concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", loadcheck.DefaultTimeout, "HTTP request timeout")
	f.BoolVar(&cfg.KeepData, "keep", false, "Keep the created records")
	return cmd
}
