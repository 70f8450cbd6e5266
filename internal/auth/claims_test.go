package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/go-api/pkg/types"
)

func TestClaimPairs_FlattensEverything(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "sofia"},
		Roles:            []string{"Manager", "Auditor"},
		Permissions:      []string{"catalog.read", "catalog.write"},
		SecurityLevel:    3,
		Department:       "Sales",
		Region:           "North America",
		Attributes:       map[string]string{"employee_id": "emp-1014"},
	}

	pairs := claims.ClaimPairs()
	cs := types.NewClaimSet(pairs)

	assert.Equal(t, "sofia", cs.Subject())
	assert.True(t, cs.HasRole("Manager"))
	assert.True(t, cs.HasRole("Auditor"))
	assert.True(t, cs.HasPermission("catalog.write"))
	assert.Equal(t, 3, cs.SecurityLevel())

	dept, ok := cs.Department()
	require.True(t, ok)
	assert.Equal(t, "Sales", dept)

	region, ok := cs.Region()
	require.True(t, ok)
	assert.Equal(t, "North America", region)

	id, ok := cs.Attribute("employee_id")
	require.True(t, ok)
	assert.Equal(t, "emp-1014", id)
}

func TestClaimPairs_OmitsEmptyOptionals(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "casey"},
		Roles:            []string{"Intern"},
	}

	pairs := claims.ClaimPairs()

	for _, pair := range pairs {
		assert.NotEqual(t, types.ClaimDepartment, pair.Type)
		assert.NotEqual(t, types.ClaimRegion, pair.Type)
	}

	cs := types.NewClaimSet(pairs)
	assert.Equal(t, 0, cs.SecurityLevel())

	_, ok := cs.Department()
	assert.False(t, ok)
	_, ok = cs.Region()
	assert.False(t, ok)
}
