package metadata

// UserContext represents the authenticated user, set by the identity stage
// of the request pipeline.
type UserContext struct {
	ID          string       `json:"id"`
	Roles       []string     `json:"roles"`
	Permissions []Permission `json:"permissions"`
}

// HasRole checks whether the user has a specific role.
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission checks whether the user holds a specific permission.
func (u *UserContext) HasPermission(perm Permission) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every permission in required is held by
// the user. An empty requirement is always satisfied.
func (u *UserContext) HasAllPermissions(required []Permission) bool {
	return len(MissingPermissions(required, u.Permissions)) == 0
}
