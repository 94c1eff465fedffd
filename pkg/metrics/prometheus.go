// Package metrics provides Prometheus metrics for the learnmap catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer
	runtime          bool

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Storage
	storeOperationDuration *prometheus.HistogramVec
	storeOperationErrors   *prometheus.CounterVec

	// Catalog
	mutations *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry), WithRuntimeCollectors())
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "learnmap",
		subsystem:        "catalog",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by route, method and status",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP responses with status >= 400 by route and error kind",
		ConstLabels: m.constLabels,
	}, []string{"route", "kind"})

	m.storeOperationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_operation_duration_milliseconds",
		Help:        "Duration of storage transactions in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"backend", "op"})

	m.storeOperationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_operation_errors_total",
		Help:        "Storage transactions that failed in the backend",
		ConstLabels: m.constLabels,
	}, []string{"backend", "op"})

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mutations_total",
		Help:        "Committed catalog mutations by entity and action",
		ConstLabels: m.constLabels,
	}, []string{"entity", "action"})
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(route, kind string) {
	m.httpErrors.WithLabelValues(route, kind).Inc()
}

// ObserveStoreOperation records a storage transaction.
func (m *Manager) ObserveStoreOperation(backend, op string, durationMs float64, failed bool) {
	m.storeOperationDuration.WithLabelValues(backend, op).Observe(durationMs)
	if failed {
		m.storeOperationErrors.WithLabelValues(backend, op).Inc()
	}
}

// RecordMutation counts a committed create, update or delete.
func (m *Manager) RecordMutation(entity, action string) {
	m.mutations.WithLabelValues(entity, action).Inc()
}

// RecordHTTPRequest records one served request on the global manager.
func RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(route, method, statusCode, durationMs)
}

// RecordHTTPError counts an error response on the global manager.
func RecordHTTPError(route, kind string) {
	globalManager.RecordHTTPError(route, kind)
}

// ObserveStoreOperation records a storage transaction on the global manager.
func ObserveStoreOperation(backend, op string, durationMs float64, failed bool) {
	globalManager.ObserveStoreOperation(backend, op, durationMs, failed)
}

// RecordMutation counts a committed mutation on the global manager.
func RecordMutation(entity, action string) {
	globalManager.RecordMutation(entity, action)
}

// Init replaces the global manager and registry with ones built from opts.
// Call it once at startup, before the /metrics handler is created.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append([]Option{WithRuntimeCollectors()}, opts...)
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
