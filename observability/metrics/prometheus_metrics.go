// Package metrics provides Prometheus-backed metrics collection for the
// coordination engine, following Prometheus naming conventions with the
// service name as prefix.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements the Metrics interface using the Prometheus
// client library. It pre-registers counters for processed operations and
// errors, a duration histogram, a payload-size histogram for stored
// artifacts and reports, and an in-progress gauge.
type PrometheusMetrics struct {
	serviceName string

	processedTotal   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	durationSeconds  *prometheus.HistogramVec
	payloadSizeBytes *prometheus.HistogramVec
	inProgress       *prometheus.GaugeVec
}

// New creates a PrometheusMetrics instance and registers its collectors
// with the given registerer. Passing nil registers with the default
// registry. Registration panics on duplicate metric names, so each service
// name must be unique per process.
func New(serviceName string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{serviceName: serviceName}

	m.processedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_processed_total", serviceName),
			Help: fmt.Sprintf("Total processed operations by %s", serviceName),
		},
		[]string{"status", "type"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_errors_total", serviceName),
			Help: fmt.Sprintf("Total errors in %s", serviceName),
		},
		[]string{"error_type", "operation"},
	)

	m.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_duration_seconds", serviceName),
			Help:    fmt.Sprintf("Operation duration in %s", serviceName),
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// exponential buckets from 1KB to 100MB, sized for source artifacts
	// and analysis reports
	m.payloadSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_payload_size_bytes", serviceName),
			Help: fmt.Sprintf("Payload sizes handled by %s", serviceName),
			Buckets: []float64{
				1024,
				10240,
				102400,
				1048576,
				10485760,
				104857600,
			},
		},
		[]string{"payload_type"},
	)

	m.inProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_in_progress", serviceName),
			Help: fmt.Sprintf("Operations in progress in %s", serviceName),
		},
		[]string{"operation"},
	)

	reg.MustRegister(
		m.processedTotal,
		m.errorsTotal,
		m.durationSeconds,
		m.payloadSizeBytes,
		m.inProgress,
	)

	return m
}

// RecordSuccess increments the processed counter with status "success".
func (m *PrometheusMetrics) RecordSuccess(operationType string) {
	m.processedTotal.WithLabelValues("success", operationType).Inc()
}

// RecordError increments both the processed counter with status "error"
// and the detailed error counter, giving high-level failure rates plus
// per-category breakdowns.
func (m *PrometheusMetrics) RecordError(operationType string, errorType string) {
	m.processedTotal.WithLabelValues("error", operationType).Inc()
	m.errorsTotal.WithLabelValues(errorType, operationType).Inc()
}

// RecordDuration records an operation duration in seconds.
func (m *PrometheusMetrics) RecordDuration(operation string, duration float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordPayloadSize records the size in bytes of a stored payload.
func (m *PrometheusMetrics) RecordPayloadSize(payloadType string, bytes int64) {
	m.payloadSizeBytes.WithLabelValues(payloadType).Observe(float64(bytes))
}

// StartOperation increments the in-progress gauge for an operation.
func (m *PrometheusMetrics) StartOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Inc()
}

// EndOperation decrements the in-progress gauge for an operation.
func (m *PrometheusMetrics) EndOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Dec()
}
