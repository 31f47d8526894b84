package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAtLeast(t *testing.T) {
	assert.True(t, IsAtLeast(RoleSuperuser, RoleAdmin))
	assert.True(t, IsAtLeast(RoleAdmin, RoleAdmin))
	assert.True(t, IsAtLeast(RoleAdmin, RoleUser))
	assert.False(t, IsAtLeast(RoleUser, RoleAdmin))
	assert.False(t, IsAtLeast("unknown", RoleUser))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}

func TestAdminRoles(t *testing.T) {
	assert.Contains(t, AdminRoles, RoleAdmin)
	assert.Contains(t, AdminRoles, RoleSuperuser)
	assert.NotContains(t, AdminRoles, RoleUser)
}
