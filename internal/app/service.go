// Package service provides the catalog services that implement
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/learnmap/internal/adapters/repository"
	"github.com/okian/learnmap/pkg/logger"
)

// Service bundles the topic and skill services over one store.
type Service struct {
	Topics *TopicService
	Skills *SkillService

	store  repository.Store
	logger logger.Logger
}

// deps is shared by the entity services.
type deps struct {
	store  repository.Store
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// Option applies a configuration option to the Service.
type Option func(*deps)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock replaces time.Now as the source of createdAt.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(d *deps) {
		if newID != nil {
			d.newID = newID
		}
	}
}

// New creates a Service over store. The store is owned by the Service from
// here on and released by Close.
func New(store repository.Store, opts ...Option) *Service {
	d := &deps{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get()
	}

	return &Service{
		Topics: &TopicService{deps: d, log: d.logger.Named("topics")},
		Skills: &SkillService{deps: d, log: d.logger.Named("skills")},
		store:  store,
		logger: d.logger,
	}
}

// Ping reports whether the storage backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the storage backend.
func (s *Service) Close() error {
	s.logger.Info(context.Background(), "closing catalog store")
	return s.store.Close()
}

// timestamp returns the creation time stored with new records. Both SQL
// dialects keep microseconds, so finer precision would not round-trip.
func (d *deps) timestamp() time.Time {
	return d.now().UTC().Truncate(time.Microsecond)
}

// requireTopic resolves a topic reference inside a write transaction and
// holds it against concurrent deletion until commit.
func requireTopic(ctx context.Context, tx repository.Tx, id, missing string) error {
	if _, err := tx.GetTopic(ctx, id, repository.LockShare); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return validationError(missing)
		}
		return err
	}
	return nil
}

// refError maps a foreign key failure raised by the backend after the
// explicit check passed (a concurrent delete) to the same validation error.
func refError(err error, missing string) error {
	if errors.Is(err, repository.ErrForeignKey) {
		return validationError(missing)
	}
	return err
}
