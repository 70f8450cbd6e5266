// Package auth provides JWT issuance and validation for the bookstore API.
package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookvault/go-api/pkg/types"
)

// Claims is the JWT claims structure carried by access tokens
type Claims struct {
	jwt.RegisteredClaims
	Roles         []string          `json:"roles,omitempty"`
	Permissions   []string          `json:"permissions,omitempty"`
	SecurityLevel int               `json:"security_level"`
	Department    string            `json:"department,omitempty"`
	Region        string            `json:"region,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// ClaimPairs flattens the token claims into the engine's claim pairs.
// Empty values are dropped by the claim-set constructor downstream.
func (c *Claims) ClaimPairs() []types.Claim {
	pairs := []types.Claim{
		{Type: types.ClaimSubject, Value: c.Subject},
	}

	for _, role := range c.Roles {
		pairs = append(pairs, types.Claim{Type: types.ClaimRole, Value: role})
	}
	for _, perm := range c.Permissions {
		pairs = append(pairs, types.Claim{Type: types.ClaimPermission, Value: perm})
	}

	pairs = append(pairs, types.Claim{
		Type:  types.ClaimSecurityLevel,
		Value: strconv.Itoa(c.SecurityLevel),
	})

	if c.Department != "" {
		pairs = append(pairs, types.Claim{Type: types.ClaimDepartment, Value: c.Department})
	}
	if c.Region != "" {
		pairs = append(pairs, types.Claim{Type: types.ClaimRegion, Value: c.Region})
	}

	for name, value := range c.Attributes {
		pairs = append(pairs, types.Claim{Type: name, Value: value})
	}

	return pairs
}
