// Package metrics provides observability for the authorization engine
package metrics

import (
	"net/http"
	"time"
)

// Metrics provides observability for the authorization engine and its HTTP surface
type Metrics interface {
	// Decision metrics
	RecordDecision(effect, policy string, duration time.Duration)
	RecordUnknownPolicy()

	// HTTP metrics
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	IncActiveRequests()
	DecActiveRequests()

	// HTTP handler for Prometheus scraping
	HTTPHandler() http.Handler
}

// NoOpMetrics provides a no-op implementation for testing/disabled monitoring
type NoOpMetrics struct{}

// NewNoOpMetrics creates a new no-op metrics instance
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

// Decision metrics
func (n *NoOpMetrics) RecordDecision(effect, policy string, duration time.Duration) {}
func (n *NoOpMetrics) RecordUnknownPolicy()                                         {}

// HTTP metrics
func (n *NoOpMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {}
func (n *NoOpMetrics) IncActiveRequests()                                                         {}
func (n *NoOpMetrics) DecActiveRequests()                                                         {}

// HTTPHandler returns a no-op handler
func (n *NoOpMetrics) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("# NoOp metrics - monitoring disabled\n"))
	})
}
