package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardPredicates(t *testing.T) {
	customer := &Principal{UserID: 1, Email: "joey@example.com", Permissions: []string{"CUSTOMER"}}
	admin := &Principal{UserID: 2, Email: "kaiba@example.com", Permissions: []string{"ADMIN", "CUSTOMER"}}

	assert.True(t, IsSameUser(customer, 1))
	assert.False(t, IsSameUser(customer, 2))
	assert.False(t, IsSameUser(customer, 0))
	assert.False(t, IsAdmin(customer))
	assert.True(t, IsAdmin(admin))
	assert.True(t, HasPermission(customer, "customer"))
	assert.True(t, IsSameUserOrAdmin(admin, 1))
	assert.False(t, IsSameUserOrAdmin(customer, 2))
}

func TestGuardRequireReturnsUnauthorized(t *testing.T) {
	customer := &Principal{UserID: 1, Permissions: []string{"CUSTOMER"}}

	require.NoError(t, RequireSameUser(customer, 1))
	require.ErrorIs(t, RequireSameUser(customer, 3), ErrUserUnauthorized)
	require.ErrorIs(t, RequireAdmin(customer), ErrUserUnauthorized)
	require.ErrorIs(t, RequirePermission(customer, "ADMIN"), ErrUserUnauthorized)
	require.ErrorIs(t, RequireSameUserOrAdmin(customer, 3), ErrUserUnauthorized)
}

func TestGuardNilPrincipalIsDenied(t *testing.T) {
	var anonymous *Principal
	assert.False(t, IsSameUserOrAdmin(anonymous, 1))
	assert.ErrorIs(t, RequireAdmin(anonymous), ErrUserUnauthorized)
	assert.ErrorIs(t, RequireSameUser(&Principal{}, 0), ErrUserUnauthorized)
}
