// Package engine provides the core decision engine for authorization
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bookvault/go-api/internal/audit"
	"github.com/bookvault/go-api/internal/metrics"
	"github.com/bookvault/go-api/internal/policy"
	"github.com/bookvault/go-api/pkg/types"
)

// unknownPolicyLabel keeps the metrics policy label bounded on lookup misses,
// since requested policy names arrive from callers.
const unknownPolicyLabel = "(unknown)"

// Config configures the evaluator's observability hooks
type Config struct {
	// Logger receives one structured line per decision (zap.NewNop when nil)
	Logger *zap.Logger

	// Metrics records decision counters and latency (no-op when nil)
	Metrics metrics.Metrics

	// Audit records the decision trail (skipped when nil)
	Audit audit.Logger
}

// Evaluator evaluates claim sets against named policies from an immutable registry
type Evaluator struct {
	registry *policy.Registry
	logger   *zap.Logger
	metrics  metrics.Metrics
	audit    audit.Logger
}

// New creates a new evaluator backed by the given policy registry
func New(cfg Config, registry *policy.Registry) (*Evaluator, error) {
	if registry == nil {
		return nil, fmt.Errorf("policy registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNoOpMetrics()
	}

	return &Evaluator{
		registry: registry,
		logger:   logger,
		metrics:  m,
		audit:    cfg.Audit,
	}, nil
}

// Authorize evaluates the named policy against the claim set.
// Every requirement is evaluated even after the first failure, so the
// decision carries one reason per unsatisfied requirement, in the order
// the requirements were registered. An unknown policy name denies.
func (e *Evaluator) Authorize(ctx context.Context, claims *types.ClaimSet, policyName string) types.Decision {
	start := time.Now()

	if claims == nil {
		claims = types.NewClaimSet(nil)
	}

	pol, ok := e.registry.Lookup(policyName)
	if !ok {
		decision := types.Decision{
			Allowed: false,
			Policy:  policyName,
			Reasons: []string{fmt.Sprintf("unknown policy: %s", policyName)},
		}
		e.metrics.RecordUnknownPolicy()
		e.finish(ctx, claims, decision, unknownPolicyLabel, time.Since(start))
		return decision
	}

	decision := types.Decision{Allowed: true, Policy: policyName}
	for _, req := range pol.Requirements() {
		satisfied, reason := req.Evaluate(claims)
		if !satisfied {
			decision.Allowed = false
			decision.Reasons = append(decision.Reasons, reason)
		}
	}

	e.finish(ctx, claims, decision, policyName, time.Since(start))
	return decision
}

// AuthorizeRequirement evaluates a single requirement outside any named policy
func (e *Evaluator) AuthorizeRequirement(ctx context.Context, claims *types.ClaimSet, req types.Requirement) types.Decision {
	start := time.Now()

	if claims == nil {
		claims = types.NewClaimSet(nil)
	}

	if req == nil {
		decision := types.Decision{
			Allowed: false,
			Policy:  "(inline)",
			Reasons: []string{"no requirement provided"},
		}
		e.finish(ctx, claims, decision, "(inline)", time.Since(start))
		return decision
	}

	name := fmt.Sprintf("(inline %s)", req.Kind())
	decision := types.Decision{Allowed: true, Policy: name}
	if satisfied, reason := req.Evaluate(claims); !satisfied {
		decision.Allowed = false
		decision.Reasons = append(decision.Reasons, reason)
	}

	e.finish(ctx, claims, decision, name, time.Since(start))
	return decision
}

// finish emits the log line, metrics, and audit event for a decision
func (e *Evaluator) finish(ctx context.Context, claims *types.ClaimSet, decision types.Decision, metricLabel string, elapsed time.Duration) {
	effect := decision.Effect()

	if decision.Allowed {
		e.logger.Info("authorization allowed",
			zap.String("policy", decision.Policy),
			zap.String("subject", claims.Subject()),
			zap.Duration("duration", elapsed),
		)
	} else {
		e.logger.Warn("authorization denied",
			zap.String("policy", decision.Policy),
			zap.String("subject", claims.Subject()),
			zap.Strings("reasons", decision.Reasons),
			zap.Duration("duration", elapsed),
		)
	}

	e.metrics.RecordDecision(effect, metricLabel, elapsed)

	if e.audit != nil {
		e.audit.RecordDecision(ctx, &audit.DecisionEvent{
			Subject:     claims.Subject(),
			Policy:      decision.Policy,
			Effect:      effect,
			Reasons:     decision.Reasons,
			Performance: audit.Performance{DurationUs: elapsed.Microseconds()},
		})
	}
}
