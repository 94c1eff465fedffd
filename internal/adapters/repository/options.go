package repository

import (
	"time"

	"github.com/okian/learnmap/pkg/logger"
)

// Default connection pool settings for the SQL store.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = time.Hour
	defaultSlowQuery       = 200 * time.Millisecond
)

type options struct {
	logger          logger.Logger
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	slowQuery       time.Duration
}

func defaultOptions() options {
	return options{
		maxOpenConns:    defaultMaxOpenConns,
		maxIdleConns:    defaultMaxIdleConns,
		connMaxLifetime: defaultConnMaxLifetime,
		slowQuery:       defaultSlowQuery,
	}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithLogger sets the logger used for warnings and slow queries.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxOpenConns bounds the SQL connection pool.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns sets how many idle SQL connections are kept.
func WithMaxIdleConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime recycles SQL connections older than d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connMaxLifetime = d
		}
	}
}

// WithSlowQueryThreshold sets the duration above which queries are logged.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.slowQuery = d
		}
	}
}
