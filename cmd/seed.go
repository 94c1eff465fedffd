package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/okian/learnmap/internal/app"
	"github.com/okian/learnmap/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the sample catalog (idempotent)",
		Long:  "Creates five sample topics and eight skills unless records with the same names already exist, then prints their ids.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx, cmd)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			svc := app.New(store, app.WithLogger(log))
			defer func() {
				if err := svc.Close(); err != nil {
					log.Warn(ctx, "closing store failed", logger.Error(err))
				}
			}()

			res, err := svc.Seed(ctx)
			if err != nil {
				return fmt.Errorf("seeding: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Topics:")
			for _, t := range res.Topics {
				fmt.Fprintf(out, "  - %s: %s\n", t.Name, t.ID)
			}
			fmt.Fprintln(out, "Skills:")
			for _, s := range res.Skills {
				fmt.Fprintf(out, "  - %s (%s): %s\n", s.Name, s.Difficulty, s.ID)
			}
			return nil
		},
	}
}
