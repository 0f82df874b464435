package metadata

// Reflector reads annotations from a Registry the way guards need them.
type Reflector struct {
	registry *Registry
}

func NewReflector(reg *Registry) *Reflector {
	return &Reflector{registry: reg}
}

// Get returns the value attached to a single handler under key.
func (r *Reflector) Get(key string, id HandlerID) (any, bool) {
	return r.registry.Get(id, key)
}

// GetAllAndOverride returns the first value found under key, checking the
// targets in order. Pass the handler before its group so the handler wins.
func (r *Reflector) GetAllAndOverride(key string, targets ...HandlerID) (any, bool) {
	for _, id := range targets {
		if id == "" {
			continue
		}
		if v, ok := r.registry.Get(id, key); ok {
			return v, true
		}
	}
	return nil, false
}

// Permissions returns the permission requirement attached to the handler.
// ok is false when no requirement is attached; valid is false when the
// attached value is not a permission list.
func (r *Reflector) Permissions(id HandlerID) (perms []Permission, ok bool, valid bool) {
	v, ok := r.Get(PermissionsKey, id)
	if !ok {
		return nil, false, true
	}
	perms, valid = v.([]Permission)
	return perms, true, valid
}

// Roles returns the roles attached to the handler, if any.
func (r *Reflector) Roles(id HandlerID) ([]Role, bool) {
	v, ok := r.Get(RolesKey, id)
	if !ok {
		return nil, false
	}
	roles, ok := v.([]Role)
	return roles, ok
}
