package repository

import (
	"errors"
	"time"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/pkg/metrics"
)

// observe records a store transaction. Domain outcomes such as a failed
// reference check are not backend failures and are not counted as errors.
func observe(backend, op string, start time.Time, err error) {
	var domainErr *model.Error
	failed := err != nil && !errors.As(err, &domainErr) && !errors.Is(err, ErrNotFound)
	metrics.ObserveStoreOperation(backend, op, float64(time.Since(start).Microseconds())/1000, failed)
}
