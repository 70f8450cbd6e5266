// Package policy provides the named policy registry consulted by the
// authorization evaluator.
package policy

import (
	"fmt"
	"sort"

	"github.com/bookvault/go-api/pkg/types"
)

// Policy is a named, ordered list of requirements. A policy is satisfied
// only when every requirement is satisfied; any-of semantics live inside
// the individual requirement variants.
type Policy struct {
	name         string
	requirements []types.Requirement
}

// New builds a policy. The name must be non-empty and at least one
// requirement is needed.
func New(name string, requirements ...types.Requirement) (Policy, error) {
	if name == "" {
		return Policy{}, fmt.Errorf("policy name is required")
	}
	if len(requirements) == 0 {
		return Policy{}, fmt.Errorf("policy %q needs at least one requirement", name)
	}
	for i, req := range requirements {
		if req == nil {
			return Policy{}, fmt.Errorf("policy %q: requirement %d is nil", name, i)
		}
	}
	return Policy{
		name:         name,
		requirements: append([]types.Requirement(nil), requirements...),
	}, nil
}

// Name returns the policy name.
func (p Policy) Name() string { return p.name }

// Requirements returns the requirements in registration order.
func (p Policy) Requirements() []types.Requirement {
	return append([]types.Requirement(nil), p.requirements...)
}

// Registry is an immutable mapping from policy name to policy. It is
// constructed once at startup and never mutated, so it may be shared
// across any number of concurrent evaluations without synchronization.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry builds a registry from the given policies. Duplicate policy
// names are a configuration bug and fail construction.
func NewRegistry(policies ...Policy) (*Registry, error) {
	byName := make(map[string]Policy, len(policies))
	for _, pol := range policies {
		if pol.name == "" {
			return nil, fmt.Errorf("registry: policy without a name")
		}
		if _, exists := byName[pol.name]; exists {
			return nil, fmt.Errorf("registry: duplicate policy %q", pol.name)
		}
		byName[pol.name] = pol
	}
	return &Registry{policies: byName}, nil
}

// Lookup returns the policy registered under name.
func (r *Registry) Lookup(name string) (Policy, bool) {
	pol, ok := r.policies[name]
	return pol, ok
}

// Names returns all registered policy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered policies.
func (r *Registry) Len() int { return len(r.policies) }
