package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T, m Metrics) string {
	t.Helper()
	handler := m.HTTPHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// TestPrometheusMetrics_RecordDecision verifies decision counters and labels
func TestPrometheusMetrics_RecordDecision(t *testing.T) {
	tests := []struct {
		name      string
		decisions []struct {
			effect string
			policy string
		}
		expected map[string]int
	}{
		{
			name: "Single allow decision",
			decisions: []struct {
				effect string
				policy string
			}{
				{effect: "allow", policy: "AdminOnly"},
			},
			expected: map[string]int{`effect="allow",policy="AdminOnly"`: 1},
		},
		{
			name: "Mixed decisions across policies",
			decisions: []struct {
				effect string
				policy string
			}{
				{effect: "allow", policy: "AdminOnly"},
				{effect: "allow", policy: "AdminOnly"},
				{effect: "deny", policy: "AdminOnly"},
				{effect: "deny", policy: "CatalogEditor"},
			},
			expected: map[string]int{
				`effect="allow",policy="AdminOnly"`:    2,
				`effect="deny",policy="AdminOnly"`:     1,
				`effect="deny",policy="CatalogEditor"`: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPrometheusMetrics("bookvault_test")

			for _, d := range tt.decisions {
				m.RecordDecision(d.effect, d.policy, 5*time.Microsecond)
			}

			body := scrape(t, m)

			for labels, count := range tt.expected {
				expectedLine := "bookvault_test_decisions_total{" + labels + "} " + strconv.Itoa(count)
				assert.Contains(t, body, expectedLine,
					"Expected metric line: %s", expectedLine)
			}

			// Histogram series are exported alongside the counters
			assert.Contains(t, body, "bookvault_test_decision_duration_microseconds")
			assert.Contains(t, body, "_bucket{")
			assert.Contains(t, body, "_sum")
			assert.Contains(t, body, "_count")
		})
	}
}

// TestPrometheusMetrics_DecisionCounts verifies the atomic fast-path counters
func TestPrometheusMetrics_DecisionCounts(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	m.RecordDecision("allow", "AdminOnly", time.Microsecond)
	m.RecordDecision("allow", "CatalogReader", time.Microsecond)
	m.RecordDecision("deny", "AdminOnly", time.Microsecond)

	allow, deny := m.DecisionCounts()
	assert.Equal(t, uint64(2), allow)
	assert.Equal(t, uint64(1), deny)
}

// TestPrometheusMetrics_UnknownPolicies verifies lookup-miss tracking
func TestPrometheusMetrics_UnknownPolicies(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	m.RecordUnknownPolicy()
	m.RecordUnknownPolicy()
	m.RecordUnknownPolicy()

	body := scrape(t, m)
	assert.Contains(t, body, "bookvault_test_unknown_policies_total 3")
}

// TestPrometheusMetrics_HTTPRequests verifies request counting by route and status
func TestPrometheusMetrics_HTTPRequests(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	m.RecordHTTPRequest("GET", "/api/v1/books", 200, 3*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/books", 200, 2*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/books/:id", 404, 1*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/books", 403, 2*time.Millisecond)

	body := scrape(t, m)

	assert.Contains(t, body,
		`bookvault_test_http_requests_total{method="GET",route="/api/v1/books",status="200"} 2`)
	assert.Contains(t, body,
		`bookvault_test_http_requests_total{method="GET",route="/api/v1/books/:id",status="404"} 1`)
	assert.Contains(t, body,
		`bookvault_test_http_requests_total{method="POST",route="/api/v1/books",status="403"} 1`)
	assert.Contains(t, body, "bookvault_test_http_request_duration_milliseconds")
}

// TestPrometheusMetrics_ActiveRequests verifies gauge increments/decrements
func TestPrometheusMetrics_ActiveRequests(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	m.IncActiveRequests()
	m.IncActiveRequests()
	m.IncActiveRequests()
	m.DecActiveRequests()

	body := scrape(t, m)
	assert.Contains(t, body, "bookvault_test_http_active_requests 2")
}

// TestPrometheusMetrics_HistogramBuckets verifies correct bucket configuration
func TestPrometheusMetrics_HistogramBuckets(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	m.RecordDecision("allow", "AdminOnly", 1*time.Microsecond)
	m.RecordDecision("allow", "AdminOnly", 100*time.Microsecond)
	m.RecordDecision("allow", "AdminOnly", 1000*time.Microsecond)

	body := scrape(t, m)

	expectedBuckets := []string{"1", "5", "10", "25", "50", "100", "250", "500", "1000", "5000", "10000"}
	for _, bucket := range expectedBuckets {
		assert.Contains(t, body, "le=\""+bucket+"\"",
			"Expected histogram bucket: le=\"%s\"", bucket)
	}
	assert.Contains(t, body, "le=\"+Inf\"")
}

// TestPrometheusMetrics_ValidFormat verifies Prometheus exposition format
func TestPrometheusMetrics_ValidFormat(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	m.RecordDecision("allow", "AdminOnly", 5*time.Microsecond)
	m.RecordHTTPRequest("GET", "/healthz", 200, time.Millisecond)

	body := scrape(t, m)

	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "# TYPE")

	// Standard Go metrics ride along on the private registry
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "go_memstats")
}

// TestPrometheusMetrics_ConcurrentAccess verifies thread safety
func TestPrometheusMetrics_ConcurrentAccess(t *testing.T) {
	m := NewPrometheusMetrics("bookvault_test")

	var wg sync.WaitGroup
	iterations := 100

	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordDecision("allow", "AdminOnly", 5*time.Microsecond)
			m.RecordUnknownPolicy()
			m.IncActiveRequests()
			m.DecActiveRequests()
		}()
	}

	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordHTTPRequest("GET", "/api/v1/books", 200, time.Millisecond)
		}()
	}

	wg.Wait()

	body := scrape(t, m)
	assert.Contains(t, body, "bookvault_test_decisions_total")

	allow, _ := m.DecisionCounts()
	assert.Equal(t, uint64(iterations), allow)
}

// TestPrometheusMetrics_MultipleNamespaces verifies namespace isolation
func TestPrometheusMetrics_MultipleNamespaces(t *testing.T) {
	m1 := NewPrometheusMetrics("bookvault_prod")
	m2 := NewPrometheusMetrics("bookvault_test")

	m1.RecordDecision("allow", "AdminOnly", 5*time.Microsecond)
	m2.RecordDecision("deny", "AdminOnly", 3*time.Microsecond)

	body1 := scrape(t, m1)
	assert.Contains(t, body1, "bookvault_prod_decisions_total")
	assert.NotContains(t, body1, "bookvault_test_decisions_total")

	body2 := scrape(t, m2)
	assert.Contains(t, body2, "bookvault_test_decisions_total")
	assert.NotContains(t, body2, "bookvault_prod_decisions_total")
}
