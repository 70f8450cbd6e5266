// Package types provides the claim and requirement model shared across the
// authorization engine.
package types

import (
	"sort"
	"strconv"
)

// Well-known claim type names recognized by NewClaimSet. Any other claim
// type is kept in the attributes map.
const (
	ClaimSubject       = "sub"
	ClaimRole          = "role"
	ClaimPermission    = "permission"
	ClaimSecurityLevel = "security_level"
	ClaimDepartment    = "department"
	ClaimRegion        = "region"
)

// Claim is a single (type, value) fact about an authenticated principal,
// as produced by a credential validator.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ClaimSet is an immutable snapshot of an authenticated principal's
// attributes. It is constructed once per validated credential and is never
// mutated afterwards; all accessors return copies of internal state.
type ClaimSet struct {
	subject       string
	roles         map[string]struct{}
	permissions   map[string]struct{}
	securityLevel int
	department    string
	region        string
	attributes    map[string]string
}

// NewClaimSet builds a ClaimSet from an unordered list of claim pairs.
// Repeated role and permission claims accumulate into sets; duplicates
// collapse. The security_level claim is parsed as an integer and defaults
// to 0 when missing or unparsable, so a credential without a level claim
// simply fails level-based checks instead of faulting. NewClaimSet never
// returns nil.
func NewClaimSet(claims []Claim) *ClaimSet {
	cs := &ClaimSet{
		roles:       make(map[string]struct{}),
		permissions: make(map[string]struct{}),
		attributes:  make(map[string]string),
	}

	for _, claim := range claims {
		if claim.Value == "" {
			continue
		}
		switch claim.Type {
		case ClaimSubject:
			cs.subject = claim.Value
		case ClaimRole:
			cs.roles[claim.Value] = struct{}{}
		case ClaimPermission:
			cs.permissions[claim.Value] = struct{}{}
		case ClaimSecurityLevel:
			if level, err := strconv.Atoi(claim.Value); err == nil {
				cs.securityLevel = level
			}
		case ClaimDepartment:
			cs.department = claim.Value
		case ClaimRegion:
			cs.region = claim.Value
		default:
			cs.attributes[claim.Type] = claim.Value
		}
	}

	return cs
}

// Subject returns the principal identifier, or "" when the credential
// carried no subject claim.
func (cs *ClaimSet) Subject() string {
	return cs.subject
}

// HasRole reports whether the principal holds the given role.
func (cs *ClaimSet) HasRole(role string) bool {
	_, ok := cs.roles[role]
	return ok
}

// Roles returns the principal's roles in sorted order.
func (cs *ClaimSet) Roles() []string {
	return sortedKeys(cs.roles)
}

// HasPermission reports whether the principal holds the given permission.
func (cs *ClaimSet) HasPermission(permission string) bool {
	_, ok := cs.permissions[permission]
	return ok
}

// Permissions returns the principal's permissions in sorted order.
func (cs *ClaimSet) Permissions() []string {
	return sortedKeys(cs.permissions)
}

// SecurityLevel returns the parsed clearance rank, 0 when the credential
// carried none.
func (cs *ClaimSet) SecurityLevel() int {
	return cs.securityLevel
}

// Department returns the department claim. ok is false when the credential
// carried no department.
func (cs *ClaimSet) Department() (department string, ok bool) {
	return cs.department, cs.department != ""
}

// Region returns the region claim. ok is false when the credential carried
// no region.
func (cs *ClaimSet) Region() (region string, ok bool) {
	return cs.region, cs.region != ""
}

// Attribute looks up a custom claim by type name.
func (cs *ClaimSet) Attribute(name string) (value string, ok bool) {
	value, ok = cs.attributes[name]
	return value, ok
}

// Attributes returns a copy of the custom claim map.
func (cs *ClaimSet) Attributes() map[string]string {
	attrs := make(map[string]string, len(cs.attributes))
	for k, v := range cs.attributes {
		attrs[k] = v
	}
	return attrs
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
