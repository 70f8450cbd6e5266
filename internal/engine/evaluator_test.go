package engine

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bookvault/go-api/internal/audit"
	"github.com/bookvault/go-api/internal/policy"
	"github.com/bookvault/go-api/pkg/types"
)

// captureMetrics records decision metrics for assertions
type captureMetrics struct {
	mu        sync.Mutex
	decisions map[string]int // effect|policy
	unknown   int
}

func newCaptureMetrics() *captureMetrics {
	return &captureMetrics{decisions: make(map[string]int)}
}

func (c *captureMetrics) RecordDecision(effect, policyName string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decisions[effect+"|"+policyName]++
}

func (c *captureMetrics) RecordUnknownPolicy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unknown++
}

func (c *captureMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {}
func (c *captureMetrics) IncActiveRequests()                                                  {}
func (c *captureMetrics) DecActiveRequests()                                                  {}
func (c *captureMetrics) HTTPHandler() http.Handler                                           { return nil }

func (c *captureMetrics) count(effect, policyName string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decisions[effect+"|"+policyName]
}

// captureAudit records audit events for assertions
type captureAudit struct {
	mu     sync.Mutex
	events []*audit.DecisionEvent
}

func (c *captureAudit) RecordDecision(ctx context.Context, event *audit.DecisionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureAudit) Flush() error { return nil }
func (c *captureAudit) Close() error { return nil }

func (c *captureAudit) all() []*audit.DecisionEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*audit.DecisionEvent, len(c.events))
	copy(out, c.events)
	return out
}

func newTestEvaluator(t *testing.T, cfg Config) *Evaluator {
	t.Helper()
	registry, err := policy.DefaultRegistry()
	require.NoError(t, err)
	ev, err := New(cfg, registry)
	require.NoError(t, err)
	return ev
}

func sysadminClaims() *types.ClaimSet {
	return types.NewClaimSet([]types.Claim{
		{Type: types.ClaimSubject, Value: "root"},
		{Type: types.ClaimRole, Value: "Admin"},
		{Type: types.ClaimPermission, Value: "system.admin"},
		{Type: types.ClaimSecurityLevel, Value: "5"},
	})
}

func clerkClaims() *types.ClaimSet {
	return types.NewClaimSet([]types.Claim{
		{Type: types.ClaimSubject, Value: "marco"},
		{Type: types.ClaimRole, Value: "Clerk"},
		{Type: types.ClaimPermission, Value: "catalog.read"},
		{Type: types.ClaimSecurityLevel, Value: "1"},
	})
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.ErrorContains(t, err, "policy registry is required")
}

func TestAuthorize_Allow(t *testing.T) {
	ev := newTestEvaluator(t, Config{})

	decision := ev.Authorize(context.Background(), sysadminClaims(), "SystemAdministrator")

	assert.True(t, decision.Allowed)
	assert.Equal(t, "SystemAdministrator", decision.Policy)
	assert.Empty(t, decision.Reasons)
	assert.Equal(t, "allow", decision.Effect())
}

func TestAuthorize_DenyWithReason(t *testing.T) {
	ev := newTestEvaluator(t, Config{})

	decision := ev.Authorize(context.Background(), clerkClaims(), "AdminOnly")

	assert.False(t, decision.Allowed)
	assert.Equal(t, []string{"missing required role (one of: Admin)"}, decision.Reasons)
	assert.Equal(t, "deny", decision.Effect())
}

func TestAuthorize_EvaluatesEveryRequirement(t *testing.T) {
	ev := newTestEvaluator(t, Config{})

	// SystemAdministrator stacks level, role, and permission requirements.
	// A clerk fails all three; the reasons arrive in registration order.
	decision := ev.Authorize(context.Background(), clerkClaims(), "SystemAdministrator")

	require.False(t, decision.Allowed)
	require.Len(t, decision.Reasons, 3)
	assert.Equal(t, "insufficient security level (required: 4, actual: 1)", decision.Reasons[0])
	assert.Equal(t, "missing required role (one of: Admin)", decision.Reasons[1])
	assert.Equal(t, "missing permission 'system.admin'", decision.Reasons[2])
}

func TestAuthorize_PartialFailureKeepsOrder(t *testing.T) {
	ev := newTestEvaluator(t, Config{})

	// Satisfies the role requirement but lacks the write permission.
	claims := types.NewClaimSet([]types.Claim{
		{Type: types.ClaimSubject, Value: "sofia"},
		{Type: types.ClaimRole, Value: "Manager"},
		{Type: types.ClaimPermission, Value: "catalog.read"},
	})

	decision := ev.Authorize(context.Background(), claims, "CatalogEditor")

	require.False(t, decision.Allowed)
	assert.Equal(t, []string{"missing permission 'catalog.write'"}, decision.Reasons)
}

func TestAuthorize_UnknownPolicy(t *testing.T) {
	m := newCaptureMetrics()
	ev := newTestEvaluator(t, Config{Metrics: m})

	decision := ev.Authorize(context.Background(), sysadminClaims(), "NoSuchPolicy")

	assert.False(t, decision.Allowed)
	assert.Equal(t, "NoSuchPolicy", decision.Policy)
	assert.Equal(t, []string{"unknown policy: NoSuchPolicy"}, decision.Reasons)
	assert.Equal(t, 1, m.unknown)
	assert.Equal(t, 1, m.count("deny", "(unknown)"))
}

func TestAuthorize_NilClaimSet(t *testing.T) {
	ev := newTestEvaluator(t, Config{})

	decision := ev.Authorize(context.Background(), nil, "AdminOnly")

	assert.False(t, decision.Allowed)
	assert.Equal(t, []string{"missing required role (one of: Admin)"}, decision.Reasons)
}

func TestAuthorize_Idempotent(t *testing.T) {
	ev := newTestEvaluator(t, Config{})
	claims := clerkClaims()

	first := ev.Authorize(context.Background(), claims, "SystemAdministrator")
	second := ev.Authorize(context.Background(), claims, "SystemAdministrator")

	assert.Equal(t, first, second)
}

func TestAuthorizeRequirement(t *testing.T) {
	ev := newTestEvaluator(t, Config{})

	req, err := types.NewRoleRequirement("Manager")
	require.NoError(t, err)

	t.Run("allow", func(t *testing.T) {
		claims := types.NewClaimSet([]types.Claim{
			{Type: types.ClaimSubject, Value: "sofia"},
			{Type: types.ClaimRole, Value: "Manager"},
		})
		decision := ev.AuthorizeRequirement(context.Background(), claims, req)
		assert.True(t, decision.Allowed)
		assert.Equal(t, "(inline role)", decision.Policy)
	})

	t.Run("deny", func(t *testing.T) {
		decision := ev.AuthorizeRequirement(context.Background(), clerkClaims(), req)
		assert.False(t, decision.Allowed)
		assert.Equal(t, []string{"missing required role (one of: Manager)"}, decision.Reasons)
	})

	t.Run("nil requirement denies", func(t *testing.T) {
		decision := ev.AuthorizeRequirement(context.Background(), clerkClaims(), nil)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "(inline)", decision.Policy)
		assert.Equal(t, []string{"no requirement provided"}, decision.Reasons)
	})
}

func TestAuthorize_MetricsPerDecision(t *testing.T) {
	m := newCaptureMetrics()
	ev := newTestEvaluator(t, Config{Metrics: m})

	ev.Authorize(context.Background(), sysadminClaims(), "AdminOnly")
	ev.Authorize(context.Background(), sysadminClaims(), "AdminOnly")
	ev.Authorize(context.Background(), clerkClaims(), "AdminOnly")

	assert.Equal(t, 2, m.count("allow", "AdminOnly"))
	assert.Equal(t, 1, m.count("deny", "AdminOnly"))
	assert.Equal(t, 0, m.unknown)
}

func TestAuthorize_AuditTrail(t *testing.T) {
	a := &captureAudit{}
	ev := newTestEvaluator(t, Config{Audit: a})

	ev.Authorize(context.Background(), clerkClaims(), "AdminOnly")
	ev.Authorize(context.Background(), sysadminClaims(), "SystemAdministrator")

	events := a.all()
	require.Len(t, events, 2)

	assert.Equal(t, "marco", events[0].Subject)
	assert.Equal(t, "AdminOnly", events[0].Policy)
	assert.Equal(t, "deny", events[0].Effect)
	assert.Equal(t, []string{"missing required role (one of: Admin)"}, events[0].Reasons)

	assert.Equal(t, "root", events[1].Subject)
	assert.Equal(t, "allow", events[1].Effect)
	assert.Empty(t, events[1].Reasons)
}

func TestAuthorize_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ev := newTestEvaluator(t, Config{Logger: zap.New(core)})

	ev.Authorize(context.Background(), sysadminClaims(), "AdminOnly")
	ev.Authorize(context.Background(), clerkClaims(), "AdminOnly")

	allowed := logs.FilterMessage("authorization allowed").All()
	require.Len(t, allowed, 1)
	assert.Equal(t, zapcore.InfoLevel, allowed[0].Level)
	assert.Equal(t, "AdminOnly", allowed[0].ContextMap()["policy"])
	assert.Equal(t, "root", allowed[0].ContextMap()["subject"])

	denied := logs.FilterMessage("authorization denied").All()
	require.Len(t, denied, 1)
	assert.Equal(t, zapcore.WarnLevel, denied[0].Level)
	assert.Equal(t, "marco", denied[0].ContextMap()["subject"])
	assert.Contains(t, denied[0].ContextMap(), "reasons")
}

func TestAuthorize_Concurrent(t *testing.T) {
	ev := newTestEvaluator(t, Config{Metrics: newCaptureMetrics()})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claims := sysadminClaims()
			if i%2 == 0 {
				claims = clerkClaims()
			}
			decision := ev.Authorize(context.Background(), claims, "AdminOnly")
			assert.Equal(t, i%2 != 0, decision.Allowed)
		}(i)
	}
	wg.Wait()
}
