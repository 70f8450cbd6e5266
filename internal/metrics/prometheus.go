package metrics

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements Metrics using Prometheus with zero-allocation hot path
type PrometheusMetrics struct {
	// Decision counters (atomic, readable without scraping)
	decisionsAllow atomic.Uint64
	decisionsDeny  atomic.Uint64

	// Prometheus metrics (for HTTP export)
	decisionsTotal   *prometheus.CounterVec
	decisionDuration prometheus.Histogram
	unknownPolicies  prometheus.Counter

	// HTTP metrics
	httpRequests   *prometheus.CounterVec
	httpDuration   prometheus.Histogram
	activeRequests prometheus.Gauge

	registry *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// The policy label stays bounded: evaluators only report names from the
	// immutable registry, with a fixed placeholder for lookup misses.
	decisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Total number of authorization decisions by effect and policy",
		},
		[]string{"effect", "policy"},
	)

	// Decision latency: 1µs to 10ms (sub-millisecond expected)
	decisionDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_duration_microseconds",
			Help:      "Authorization decision latency in microseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000, 10000},
		},
	)

	unknownPolicies := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_policies_total",
			Help:      "Total number of evaluations against policies missing from the registry",
		},
	)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route template and status",
		},
		[]string{"method", "route", "status"},
	)

	// Handler latency: 1ms to 1 second
	httpDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	activeRequests := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "active_requests",
			Help:      "Number of in-flight HTTP requests",
		},
	)

	registry.MustRegister(
		decisionsTotal,
		decisionDuration,
		unknownPolicies,
		httpRequests,
		httpDuration,
		activeRequests,
	)

	return &PrometheusMetrics{
		decisionsTotal:   decisionsTotal,
		decisionDuration: decisionDuration,
		unknownPolicies:  unknownPolicies,
		httpRequests:     httpRequests,
		httpDuration:     httpDuration,
		activeRequests:   activeRequests,
		registry:         registry,
	}
}

// RecordDecision records an authorization decision (zero-allocation fast path first)
func (p *PrometheusMetrics) RecordDecision(effect, policy string, duration time.Duration) {
	if effect == "allow" {
		p.decisionsAllow.Add(1)
	} else {
		p.decisionsDeny.Add(1)
	}

	p.decisionsTotal.WithLabelValues(effect, policy).Inc()
	p.decisionDuration.Observe(float64(duration.Microseconds()))
}

// RecordUnknownPolicy records an evaluation against a policy the registry does not know
func (p *PrometheusMetrics) RecordUnknownPolicy() {
	p.unknownPolicies.Inc()
}

// RecordHTTPRequest records a completed HTTP request
func (p *PrometheusMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.Observe(float64(duration.Milliseconds()))
}

// IncActiveRequests increments in-flight requests
func (p *PrometheusMetrics) IncActiveRequests() {
	p.activeRequests.Inc()
}

// DecActiveRequests decrements in-flight requests
func (p *PrometheusMetrics) DecActiveRequests() {
	p.activeRequests.Dec()
}

// DecisionCounts returns the running allow/deny totals without a registry scrape
func (p *PrometheusMetrics) DecisionCounts() (allow, deny uint64) {
	return p.decisionsAllow.Load(), p.decisionsDeny.Load()
}

// HTTPHandler returns the Prometheus HTTP handler for /metrics endpoint
func (p *PrometheusMetrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
