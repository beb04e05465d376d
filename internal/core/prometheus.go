package core

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetricsRecorder exports operation counters and latency histograms
// through a dedicated Prometheus registry.
type PrometheusMetricsRecorder struct {
	registry  *prometheus.Registry
	results   *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder constructs a recorder with its own registry.
func NewPrometheusMetricsRecorder(namespace string) *PrometheusMetricsRecorder {
	if namespace == "" {
		namespace = "retailcore"
	}
	registry := prometheus.NewRegistry()
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_operations_total",
		Help:      "Count of service operations by operation and status.",
	}, []string{"operation", "status"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "service_operation_duration_seconds",
		Help:      "Latency of service operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	registry.MustRegister(results, durations)
	return &PrometheusMetricsRecorder{
		registry:  registry,
		results:   results,
		durations: durations,
	}
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.results.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// Registry exposes the underlying registry for custom collectors.
func (r *PrometheusMetricsRecorder) Registry() *prometheus.Registry { return r.registry }

// Handler returns an http.Handler serving the scrape endpoint.
func (r *PrometheusMetricsRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
