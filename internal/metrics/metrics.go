// Package metrics provides Prometheus metrics for the schema service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the schema service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ValidationsTotal   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec

	SchemasLoaded prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schemakit_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schemakit_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.ValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schemakit_validations_total",
			Help: "Total number of validation runs",
		},
		[]string{"schema", "mode", "result"},
	)

	m.ValidationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schemakit_validation_duration_seconds",
			Help:    "Validation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"schema"},
	)

	m.SchemasLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "schemakit_schemas_loaded",
			Help: "Number of schemas currently registered",
		},
	)

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ValidationsTotal,
		m.ValidationDuration,
		m.SchemasLoaded,
	)
	return m
}

// RecordValidation records one validation run.
func (m *Metrics) RecordValidation(schemaID, mode string, valid bool, elapsed time.Duration) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.ValidationsTotal.WithLabelValues(schemaID, mode, result).Inc()
	m.ValidationDuration.WithLabelValues(schemaID).Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware instruments HTTP requests.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		m.RequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
