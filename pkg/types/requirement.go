package types

import (
	"fmt"
	"sort"
	"strings"
)

// RequirementKind identifies a requirement variant in logs, metrics and
// policy configuration.
type RequirementKind string

const (
	KindRole          RequirementKind = "role"
	KindSecurityLevel RequirementKind = "security_level"
	KindDepartment    RequirementKind = "department"
	KindPermission    RequirementKind = "permission"
	KindRegion        RequirementKind = "region"
	KindComposite     RequirementKind = "composite"
)

// GlobalRegion is the wildcard region: an allow-list containing it admits
// every principal, and a principal claiming it matches every allow-list.
const GlobalRegion = "Global"

// Requirement is a single predicate over a ClaimSet. Evaluation is pure:
// it never mutates the claim set or the requirement, and a missing claim is
// an evaluation failure with a descriptive reason, never a fault.
//
// The variant set is closed: all implementations live in this package, so
// callers can rely on Kind covering every case.
type Requirement interface {
	// Evaluate reports whether the claim set satisfies the requirement.
	// The reason is empty when satisfied and describes the failure
	// otherwise.
	Evaluate(cs *ClaimSet) (satisfied bool, reason string)

	// Kind identifies the requirement variant.
	Kind() RequirementKind

	// sealed marks the requirement set as closed to this package.
	sealed()
}

// RoleRequirement is satisfied when the principal holds at least one of
// the allowed roles.
type RoleRequirement struct {
	names []string
}

// NewRoleRequirement builds a role requirement. At least one non-empty
// role name is required; duplicates collapse.
func NewRoleRequirement(roles ...string) (*RoleRequirement, error) {
	names, err := normalizeNames("role", roles)
	if err != nil {
		return nil, err
	}
	return &RoleRequirement{names: names}, nil
}

// AllowedRoles returns the allowed role names in sorted order.
func (r *RoleRequirement) AllowedRoles() []string {
	return append([]string(nil), r.names...)
}

// Evaluate reports whether the claim set holds any allowed role.
func (r *RoleRequirement) Evaluate(cs *ClaimSet) (bool, string) {
	for _, role := range r.names {
		if cs.HasRole(role) {
			return true, ""
		}
	}
	return false, missingRoleReason(r.names)
}

// Kind returns KindRole.
func (r *RoleRequirement) Kind() RequirementKind { return KindRole }

func (r *RoleRequirement) sealed() {}

// MinSecurityLevel and MaxSecurityLevel bound the clearance rank a
// requirement may demand.
const (
	MinSecurityLevel = 0
	MaxSecurityLevel = 5
)

// SecurityLevelRequirement is satisfied when the principal's security
// level is at least the configured minimum.
type SecurityLevelRequirement struct {
	minimum int
}

// NewSecurityLevelRequirement builds a security level requirement. The
// minimum must lie within the 0-5 clearance range.
func NewSecurityLevelRequirement(minimum int) (*SecurityLevelRequirement, error) {
	if minimum < MinSecurityLevel || minimum > MaxSecurityLevel {
		return nil, fmt.Errorf("security level must be between %d and %d, got %d",
			MinSecurityLevel, MaxSecurityLevel, minimum)
	}
	return &SecurityLevelRequirement{minimum: minimum}, nil
}

// Minimum returns the required clearance rank.
func (r *SecurityLevelRequirement) Minimum() int { return r.minimum }

// Evaluate reports whether the claim set's security level meets the
// minimum.
func (r *SecurityLevelRequirement) Evaluate(cs *ClaimSet) (bool, string) {
	if cs.SecurityLevel() >= r.minimum {
		return true, ""
	}
	return false, insufficientLevelReason(r.minimum, cs.SecurityLevel())
}

// Kind returns KindSecurityLevel.
func (r *SecurityLevelRequirement) Kind() RequirementKind { return KindSecurityLevel }

func (r *SecurityLevelRequirement) sealed() {}

// DepartmentRequirement is satisfied when the principal's department
// matches any allowed department, compared case-insensitively.
type DepartmentRequirement struct {
	allowed map[string]struct{}
	names   []string
}

// NewDepartmentRequirement builds a department requirement. At least one
// non-empty department is required; duplicates collapse case-insensitively.
func NewDepartmentRequirement(departments ...string) (*DepartmentRequirement, error) {
	allowed, names, err := normalizeFoldedSet("department", departments)
	if err != nil {
		return nil, err
	}
	return &DepartmentRequirement{allowed: allowed, names: names}, nil
}

// AllowedDepartments returns the allowed departments in sorted order.
func (r *DepartmentRequirement) AllowedDepartments() []string {
	return append([]string(nil), r.names...)
}

// Evaluate reports whether the claim set's department is allowed.
func (r *DepartmentRequirement) Evaluate(cs *ClaimSet) (bool, string) {
	department, ok := cs.Department()
	if !ok {
		return false, "no department claim found"
	}
	if _, match := r.allowed[strings.ToLower(department)]; match {
		return true, ""
	}
	return false, fmt.Sprintf("department '%s' not in allowed list: %s",
		department, strings.Join(r.names, ", "))
}

// Kind returns KindDepartment.
func (r *DepartmentRequirement) Kind() RequirementKind { return KindDepartment }

func (r *DepartmentRequirement) sealed() {}

// PermissionRequirement is satisfied when the principal holds the exact
// permission token.
type PermissionRequirement struct {
	permission string
}

// NewPermissionRequirement builds a permission requirement for a single
// non-empty permission token.
func NewPermissionRequirement(permission string) (*PermissionRequirement, error) {
	if permission == "" {
		return nil, fmt.Errorf("permission requirement needs a permission token")
	}
	return &PermissionRequirement{permission: permission}, nil
}

// Permission returns the required permission token.
func (r *PermissionRequirement) Permission() string { return r.permission }

// Evaluate reports whether the claim set holds the permission.
func (r *PermissionRequirement) Evaluate(cs *ClaimSet) (bool, string) {
	if cs.HasPermission(r.permission) {
		return true, ""
	}
	return false, missingPermissionReason(r.permission)
}

// Kind returns KindPermission.
func (r *PermissionRequirement) Kind() RequirementKind { return KindPermission }

func (r *PermissionRequirement) sealed() {}

// RegionRequirement is satisfied when the principal's region matches any
// allowed region, compared case-insensitively. GlobalRegion is a wildcard
// in both directions: an allow-list containing it admits every principal
// regardless of their region claim, and a principal whose region is Global
// matches every allow-list.
type RegionRequirement struct {
	allowed  map[string]struct{}
	names    []string
	wildcard bool
}

// NewRegionRequirement builds a region requirement. At least one non-empty
// region is required; duplicates collapse case-insensitively.
func NewRegionRequirement(regions ...string) (*RegionRequirement, error) {
	allowed, names, err := normalizeFoldedSet("region", regions)
	if err != nil {
		return nil, err
	}
	_, wildcard := allowed[strings.ToLower(GlobalRegion)]
	return &RegionRequirement{allowed: allowed, names: names, wildcard: wildcard}, nil
}

// AllowedRegions returns the allowed regions in sorted order.
func (r *RegionRequirement) AllowedRegions() []string {
	return append([]string(nil), r.names...)
}

// Evaluate reports whether the claim set's region is allowed, applying the
// Global wildcard on both sides.
func (r *RegionRequirement) Evaluate(cs *ClaimSet) (bool, string) {
	if r.wildcard {
		return true, ""
	}
	region, ok := cs.Region()
	if !ok {
		return false, "no region claim found"
	}
	if strings.EqualFold(region, GlobalRegion) {
		return true, ""
	}
	if _, match := r.allowed[strings.ToLower(region)]; match {
		return true, ""
	}
	return false, fmt.Sprintf("region '%s' not in allowed list: %s",
		region, strings.Join(r.names, ", "))
}

// Kind returns KindRegion.
func (r *RegionRequirement) Kind() RequirementKind { return KindRegion }

func (r *RegionRequirement) sealed() {}

// CompositeRequirement bundles three sub-checks into one conjunction: a
// minimum security level, an any-of role set and an all-of permission set.
// Every sub-check is evaluated so that a denial reports one reason per
// failing sub-check, not just the first.
type CompositeRequirement struct {
	minimumLevel int
	roleNames    []string
	permNames    []string
	perms        map[string]struct{}
}

// NewCompositeRequirement builds a composite requirement. The minimum
// level must lie within 0-5 and at least one required role is needed (an
// empty role set could never be satisfied). The permission set may be
// empty, which leaves the permission sub-check vacuously satisfied.
func NewCompositeRequirement(minimumLevel int, requiredRoles, requiredPermissions []string) (*CompositeRequirement, error) {
	if minimumLevel < MinSecurityLevel || minimumLevel > MaxSecurityLevel {
		return nil, fmt.Errorf("security level must be between %d and %d, got %d",
			MinSecurityLevel, MaxSecurityLevel, minimumLevel)
	}
	roleNames, err := normalizeNames("role", requiredRoles)
	if err != nil {
		return nil, fmt.Errorf("composite requirement: %w", err)
	}

	perms := make(map[string]struct{}, len(requiredPermissions))
	for _, perm := range requiredPermissions {
		if perm == "" {
			return nil, fmt.Errorf("composite requirement: empty permission token")
		}
		perms[perm] = struct{}{}
	}

	return &CompositeRequirement{
		minimumLevel: minimumLevel,
		roleNames:    roleNames,
		permNames:    sortedKeys(perms),
		perms:        perms,
	}, nil
}

// MinimumLevel returns the required clearance rank.
func (r *CompositeRequirement) MinimumLevel() int { return r.minimumLevel }

// RequiredRoles returns the any-of role set in sorted order.
func (r *CompositeRequirement) RequiredRoles() []string {
	return append([]string(nil), r.roleNames...)
}

// RequiredPermissions returns the all-of permission set in sorted order.
func (r *CompositeRequirement) RequiredPermissions() []string {
	return append([]string(nil), r.permNames...)
}

// Evaluate runs all three sub-checks and joins the failing sub-checks'
// reasons with "; ".
func (r *CompositeRequirement) Evaluate(cs *ClaimSet) (bool, string) {
	var failures []string

	if cs.SecurityLevel() < r.minimumLevel {
		failures = append(failures, insufficientLevelReason(r.minimumLevel, cs.SecurityLevel()))
	}

	roleSatisfied := false
	for _, role := range r.roleNames {
		if cs.HasRole(role) {
			roleSatisfied = true
			break
		}
	}
	if !roleSatisfied {
		failures = append(failures, missingRoleReason(r.roleNames))
	}

	var missing []string
	for _, perm := range r.permNames {
		if !cs.HasPermission(perm) {
			missing = append(missing, perm)
		}
	}
	if len(missing) > 0 {
		failures = append(failures, missingPermissionsReason(missing))
	}

	if len(failures) > 0 {
		return false, strings.Join(failures, "; ")
	}
	return true, ""
}

// Kind returns KindComposite.
func (r *CompositeRequirement) Kind() RequirementKind { return KindComposite }

func (r *CompositeRequirement) sealed() {}

// Denial reason templates live here so every requirement variant and the
// composite sub-checks phrase the same failure identically.

func missingRoleReason(allowed []string) string {
	return fmt.Sprintf("missing required role (one of: %s)", strings.Join(allowed, ", "))
}

func insufficientLevelReason(required, actual int) string {
	return fmt.Sprintf("insufficient security level (required: %d, actual: %d)", required, actual)
}

func missingPermissionReason(permission string) string {
	return fmt.Sprintf("missing permission '%s'", permission)
}

func missingPermissionsReason(missing []string) string {
	if len(missing) == 1 {
		return missingPermissionReason(missing[0])
	}
	return fmt.Sprintf("missing required permissions: %s", strings.Join(missing, ", "))
}

// normalizeNames validates, dedupes and sorts a list of names for an
// any-of set.
func normalizeNames(what string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%s requirement needs at least one %s", what, what)
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			return nil, fmt.Errorf("%s requirement: empty %s name", what, what)
		}
		set[v] = struct{}{}
	}
	return sortedKeys(set), nil
}

// normalizeFoldedSet is normalizeNames for case-insensitive sets: lookup
// keys are lower-cased while the display list keeps the first-seen casing.
func normalizeFoldedSet(what string, values []string) (map[string]struct{}, []string, error) {
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("%s requirement needs at least one %s", what, what)
	}
	allowed := make(map[string]struct{}, len(values))
	names := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			return nil, nil, fmt.Errorf("%s requirement: empty %s name", what, what)
		}
		folded := strings.ToLower(v)
		if _, seen := allowed[folded]; seen {
			continue
		}
		allowed[folded] = struct{}{}
		names = append(names, v)
	}
	sort.Strings(names)
	return allowed, names, nil
}
