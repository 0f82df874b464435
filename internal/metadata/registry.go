package metadata

import (
	"sort"
	"strings"
	"sync"
)

// HandlerID identifies a registered handler ("GET /api/orders/:id") or a
// route group ("GROUP /api/orders").
type HandlerID string

const groupPrefix = "GROUP "

// RouteID builds the identifier of a route handler.
func RouteID(method, path string) HandlerID {
	return HandlerID(strings.ToUpper(method) + " " + path)
}

// GroupID builds the identifier of a route group.
func GroupID(prefix string) HandlerID {
	return HandlerID(groupPrefix + prefix)
}

// IsGroup reports whether the id names a route group.
func (id HandlerID) IsGroup() bool {
	return strings.HasPrefix(string(id), groupPrefix)
}

// Registry is the side-table of handler annotations. It is filled while
// routes are registered and read on every request.
type Registry struct {
	mu          sync.RWMutex
	annotations map[HandlerID]map[string]any
}

func NewRegistry() *Registry {
	return &Registry{
		annotations: make(map[HandlerID]map[string]any),
	}
}

// Apply records the handler and runs the decorators against its
// annotations. Applying with no decorators still records the handler.
func (r *Registry) Apply(id HandlerID, decorators ...Decorator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.annotations[id]
	if !ok {
		a = make(map[string]any)
		r.annotations[id] = a
	}
	for _, d := range decorators {
		d(a)
	}
}

// Get returns the value attached to the handler under key. Slices of
// Permission and Role are returned as copies.
func (r *Registry) Get(id HandlerID, key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.annotations[id]
	if !ok {
		return nil, false
	}
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Has reports whether the handler has been recorded.
func (r *Registry) Has(id HandlerID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.annotations[id]
	return ok
}

// IDs returns all recorded handler and group ids, sorted.
func (r *Registry) IDs() []HandlerID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]HandlerID, 0, len(r.annotations))
	for id := range r.annotations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneValue(v any) any {
	switch s := v.(type) {
	case []Permission:
		out := make([]Permission, len(s))
		copy(out, s)
		return out
	case []Role:
		out := make([]Role, len(s))
		copy(out, s)
		return out
	default:
		return v
	}
}
