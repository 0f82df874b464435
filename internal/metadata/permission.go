package metadata

// Metadata keys under which annotations are attached to handlers.
const (
	RolesKey       = "roles"
	PermissionsKey = "permissions"
)

// Permission names a capability, e.g. "orders:delete". Permissions are
// compared by exact match; there is no hierarchy.
type Permission string

// Role is a named group label. It is independent of Permission.
type Role string

// Decorator attaches a value to a handler's annotations. Decorators are
// applied once, when the handler is registered.
type Decorator func(annotations map[string]any)

// SetMetadata attaches value under key. A later decorator for the same key
// replaces the earlier value.
func SetMetadata(key string, value any) Decorator {
	return func(annotations map[string]any) {
		annotations[key] = value
	}
}

// Roles attaches the given role names under RolesKey. Names are stored as
// given, duplicates and an empty list included.
func Roles(roles ...string) Decorator {
	list := make([]Role, len(roles))
	for i, r := range roles {
		list[i] = Role(r)
	}
	return SetMetadata(RolesKey, list)
}

// RequirePermissions attaches the permissions a caller must hold under
// PermissionsKey. Calling it with no arguments still attaches an empty
// requirement.
func RequirePermissions(perms ...Permission) Decorator {
	list := make([]Permission, len(perms))
	copy(list, perms)
	return SetMetadata(PermissionsKey, list)
}

// MissingPermissions returns the entries of required that are not in held,
// in the order they appear in required.
func MissingPermissions(required, held []Permission) []Permission {
	have := make(map[Permission]struct{}, len(held))
	for _, p := range held {
		have[p] = struct{}{}
	}
	var missing []Permission
	for _, p := range required {
		if _, ok := have[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}
