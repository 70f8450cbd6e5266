package policy

import (
	"fmt"

	"github.com/bookvault/go-api/pkg/types"
)

// Definition is the declarative form of a policy, as found in the builtin
// table and in policy configuration files.
type Definition struct {
	Name         string            `yaml:"name"`
	Requirements []RequirementSpec `yaml:"requirements"`
}

// RequirementSpec declares a single requirement. Type selects the variant
// and decides which of the remaining fields apply.
type RequirementSpec struct {
	// Type is one of role, security_level, department, permission,
	// region, composite.
	Type string `yaml:"type"`

	// Roles is the any-of role set for role and composite requirements.
	Roles []string `yaml:"roles,omitempty"`

	// Minimum is the clearance rank for security_level and composite
	// requirements.
	Minimum int `yaml:"minimum,omitempty"`

	// Departments is the allow-list for department requirements.
	Departments []string `yaml:"departments,omitempty"`

	// Permission is the token for permission requirements.
	Permission string `yaml:"permission,omitempty"`

	// Regions is the allow-list for region requirements.
	Regions []string `yaml:"regions,omitempty"`

	// Permissions is the all-of permission set for composite
	// requirements.
	Permissions []string `yaml:"permissions,omitempty"`
}

// Build constructs the declared requirement. Constructors validate their
// inputs, so malformed policy configuration fails at startup rather than
// at request time.
func (s RequirementSpec) Build() (types.Requirement, error) {
	switch types.RequirementKind(s.Type) {
	case types.KindRole:
		return types.NewRoleRequirement(s.Roles...)
	case types.KindSecurityLevel:
		return types.NewSecurityLevelRequirement(s.Minimum)
	case types.KindDepartment:
		return types.NewDepartmentRequirement(s.Departments...)
	case types.KindPermission:
		return types.NewPermissionRequirement(s.Permission)
	case types.KindRegion:
		return types.NewRegionRequirement(s.Regions...)
	case types.KindComposite:
		return types.NewCompositeRequirement(s.Minimum, s.Roles, s.Permissions)
	default:
		return nil, fmt.Errorf("unknown requirement type %q", s.Type)
	}
}

// FromDefinitions builds a registry from declarative policy definitions.
func FromDefinitions(defs []Definition) (*Registry, error) {
	policies := make([]Policy, 0, len(defs))
	for _, def := range defs {
		requirements := make([]types.Requirement, 0, len(def.Requirements))
		for i, spec := range def.Requirements {
			req, err := spec.Build()
			if err != nil {
				return nil, fmt.Errorf("policy %q: requirement %d: %w", def.Name, i, err)
			}
			requirements = append(requirements, req)
		}
		pol, err := New(def.Name, requirements...)
		if err != nil {
			return nil, err
		}
		policies = append(policies, pol)
	}
	return NewRegistry(policies...)
}

// Merge overlays override definitions onto a base set: an override with
// the same name replaces the base definition in place, new names append
// in their given order.
func Merge(base, overrides []Definition) []Definition {
	merged := append([]Definition(nil), base...)
	index := make(map[string]int, len(merged))
	for i, def := range merged {
		index[def.Name] = i
	}
	for _, def := range overrides {
		if i, exists := index[def.Name]; exists {
			merged[i] = def
			continue
		}
		index[def.Name] = len(merged)
		merged = append(merged, def)
	}
	return merged
}
