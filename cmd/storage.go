package main

import (
	"context"
	"fmt"
	"os"

	repository "github.com/okian/learnmap/internal/adapters/repository"
	"github.com/okian/learnmap/internal/config"
	"github.com/okian/learnmap/pkg/logger"
)

// openStore builds the storage backend selected by cfg.Storage.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	opts := []repository.Option{
		repository.WithLogger(log.Named("store")),
		repository.WithSlowQueryThreshold(cfg.DBSlowQuery),
	}

	switch cfg.Storage {
	case config.StoragePostgres:
		opts = append(opts,
			repository.WithMaxOpenConns(cfg.DBMaxOpenConns),
			repository.WithMaxIdleConns(cfg.DBMaxIdleConns),
			repository.WithConnMaxLifetime(cfg.DBConnMaxLifetime),
		)
		return repository.NewGormStore(ctx, repository.DialectPostgres, cfg.DatabaseURL, opts...)
	case config.StorageSQLite:
		return repository.NewGormStore(ctx, repository.DialectSQLite, cfg.SQLitePath, opts...)
	case config.StorageFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		return repository.NewFileStore(cfg.DataDir, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %w %q", config.ErrInvalidConfig, config.ErrUnknownStorage, cfg.Storage)
	}
}
