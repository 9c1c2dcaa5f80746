package github

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the API client.
// All methods are nil-safe so instrumentation stays optional.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     prometheus.Histogram
	PagesTotal          prometheus.Counter
	RetriesTotal        prometheus.Counter
	RateLimitWaitsTotal prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ghdeps_requests_total",
			Help: "Total HTTP requests issued against the GitHub API.",
		},
		[]string{"status"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ghdeps_request_duration_seconds",
			Help:    "GitHub API request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ghdeps_pages_total",
			Help: "Total pages collected across logical requests.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ghdeps_retries_total",
			Help: "Total retry attempts issued by the request engine.",
		},
	)
	rateLimitWaits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ghdeps_rate_limit_waits_total",
			Help: "Total cooldown waits forced by quota exhaustion.",
		},
	)

	registry.MustRegister(requests, requestDuration, pages, retries, rateLimitWaits)

	return &Metrics{
		Registry:            registry,
		RequestsTotal:       requests,
		RequestDuration:     requestDuration,
		PagesTotal:          pages,
		RetriesTotal:        retries,
		RateLimitWaitsTotal: rateLimitWaits,
	}
}

// IncRequest increments the request counter for a status label.
func (m *Metrics) IncRequest(status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(status).Inc()
}

// ObserveDuration records one request's latency.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncPages increments the collected-pages counter.
func (m *Metrics) IncPages() {
	if m == nil {
		return
	}
	m.PagesTotal.Inc()
}

// IncRetries increments the retry counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncRateLimitWaits increments the cooldown counter.
func (m *Metrics) IncRateLimitWaits() {
	if m == nil {
		return
	}
	m.RateLimitWaitsTotal.Inc()
}

// statusClass maps an HTTP status code to its counter label ("2xx", "4xx").
func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
