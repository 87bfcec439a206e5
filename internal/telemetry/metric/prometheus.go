package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devloop"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Control loop metrics
	RequestsApplied *prometheus.CounterVec
	RequestsFailed  *prometheus.CounterVec
	QueueMalformed  prometheus.Counter
	DrainErrors     prometheus.Counter
	DrainBatchSize  prometheus.Histogram

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		RequestsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_applied_total",
			Help:      "Queue requests applied by the control loop.",
		}, []string{"kind"}),
		RequestsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_failed_total",
			Help:      "Queue requests whose handler failed or panicked.",
		}, []string{"kind"}),
		QueueMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_malformed_total",
			Help:      "Queue entries discarded because they could not be decoded.",
		}),
		DrainErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drain_errors_total",
			Help:      "Failed attempts to drain the request queue.",
		}),
		DrainBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drain_batch_size",
			Help:      "Requests returned by non-empty drains.",
			Buckets:   []float64{1, 2, 4, 8, 16, 64},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"route"}),
	}

	reg.MustRegister(
		r.RequestsApplied,
		r.RequestsFailed,
		r.QueueMalformed,
		r.DrainErrors,
		r.DrainBatchSize,
		r.HTTPRequests,
		r.HTTPDuration,
	)
	return r
}

// MustRegister adds collectors to the registry.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns the /metrics handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordApplied counts a request handled by the control loop.
func (r *Registry) RecordApplied(kind string) {
	r.RequestsApplied.WithLabelValues(kind).Inc()
}

// RecordFailed counts a request whose handler failed.
func (r *Registry) RecordFailed(kind string) {
	r.RequestsFailed.WithLabelValues(kind).Inc()
}

// RecordMalformed counts a discarded queue entry.
func (r *Registry) RecordMalformed() {
	r.QueueMalformed.Inc()
}

// RecordDrainError counts a failed drain.
func (r *Registry) RecordDrainError() {
	r.DrainErrors.Inc()
}

// ObserveDrain records the size of a non-empty drain.
func (r *Registry) ObserveDrain(n int) {
	if n > 0 {
		r.DrainBatchSize.Observe(float64(n))
	}
}

// RecordHTTP counts one HTTP response.
func (r *Registry) RecordHTTP(route, code string, seconds float64) {
	r.HTTPRequests.WithLabelValues(route, code).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
