// Package metrics provides Prometheus metrics for the learnmap catalog service.
package metrics

import (
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager before its collectors are registered.
type Option func(*Manager)

// WithNamespace overrides the "learnmap" metric prefix. Blank keeps it.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if ns := strings.TrimSpace(namespace); ns != "" {
			m.namespace = ns
		}
	}
}

// WithSubsystem overrides the "catalog" subsystem. Blank keeps it.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if sub := strings.TrimSpace(subsystem); sub != "" {
			m.subsystem = sub
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets of the HTTP and storage
// histograms. The buckets are copied and sorted; an empty list is ignored.
func WithLatencyBuckets(buckets ...float64) Option {
	return func(m *Manager) {
		if len(buckets) == 0 {
			return
		}
		b := slices.Clone(buckets)
		slices.Sort(b)
		m.histogramBuckets = slices.Compact(b)
	}
}

// WithConstLabels adds labels carried by every series, e.g. the storage backend.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers the collectors on r instead of the default registerer.
func WithPrometheusRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithRuntimeCollectors also registers the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtime = true
	}
}
