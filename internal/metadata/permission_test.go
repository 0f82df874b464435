package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingPermissions(t *testing.T) {
	tests := []struct {
		name     string
		required []Permission
		held     []Permission
		want     []Permission
	}{
		{
			name:     "subset is satisfied",
			required: []Permission{"orders:read"},
			held:     []Permission{"orders:read", "orders:write"},
		},
		{
			name:     "one missing",
			required: []Permission{"orders:read", "orders:delete"},
			held:     []Permission{"orders:read"},
			want:     []Permission{"orders:delete"},
		},
		{
			name:     "empty requirement",
			required: []Permission{},
			held:     nil,
		},
		{
			name:     "nothing held",
			required: []Permission{"orders:read", "orders:write"},
			want:     []Permission{"orders:read", "orders:write"},
		},
		{
			name:     "exact match only",
			required: []Permission{"orders"},
			held:     []Permission{"orders:read", "Orders"},
			want:     []Permission{"orders"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingPermissions(tt.required, tt.held))
		})
	}
}

func TestHasAllPermissions_OrderDoesNotMatter(t *testing.T) {
	user := &UserContext{ID: "u1", Permissions: []Permission{"a", "c"}}
	orders := [][]Permission{
		{"a", "b", "c"},
		{"c", "b", "a"},
		{"b", "a", "c"},
	}
	for _, r := range orders {
		assert.False(t, user.HasAllPermissions(r), "requirement %v", r)
	}

	user.Permissions = append(user.Permissions, "b")
	for _, r := range orders {
		assert.True(t, user.HasAllPermissions(r), "requirement %v", r)
	}
}

func TestUserContext_HasRoleAndPermission(t *testing.T) {
	user := &UserContext{ID: "u1", Roles: []string{"sales"}, Permissions: []Permission{"orders:read"}}
	assert.True(t, user.HasRole("sales"))
	assert.False(t, user.HasRole("admin"))
	assert.True(t, user.HasPermission("orders:read"))
	assert.False(t, user.HasPermission("orders:delete"))
}

func TestRoles_KeepsInputAsGiven(t *testing.T) {
	a := map[string]any{}
	Roles()(a)
	require.Contains(t, a, RolesKey)
	assert.Equal(t, []Role{}, a[RolesKey])

	Roles("admin", "admin", "")(a)
	assert.Equal(t, []Role{"admin", "admin", ""}, a[RolesKey])
}

func TestRequirePermissions_CopiesArguments(t *testing.T) {
	perms := []Permission{"orders:read"}
	d := RequirePermissions(perms...)
	perms[0] = "orders:delete"

	a := map[string]any{}
	d(a)
	assert.Equal(t, []Permission{"orders:read"}, a[PermissionsKey])
}
