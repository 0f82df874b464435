package engine

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"cbac-backend/internal/metadata"
)

// Router registers routes on a Fiber router, records their annotations in
// the registry and puts the guards in front of every handler.
type Router struct {
	fiber    fiber.Router
	registry *metadata.Registry
	guards   []Guard
	prefix   string
	class    metadata.HandlerID
}

func NewRouter(r fiber.Router, reg *metadata.Registry, guards ...Guard) *Router {
	return &Router{fiber: r, registry: reg, guards: guards}
}

// Group returns a router for routes under prefix. Decorators given here are
// attached to the group, not to its handlers.
func (r *Router) Group(prefix string, decorators ...metadata.Decorator) *Router {
	full := joinPath(r.prefix, prefix)
	class := metadata.GroupID(full)
	if len(decorators) > 0 {
		r.registry.Apply(class, decorators...)
	}
	return &Router{
		fiber:    r.fiber.Group(prefix),
		registry: r.registry,
		guards:   r.guards,
		prefix:   full,
		class:    class,
	}
}

func (r *Router) Get(path string, h fiber.Handler, decorators ...metadata.Decorator) {
	r.handle(fiber.MethodGet, path, h, decorators)
}

func (r *Router) Post(path string, h fiber.Handler, decorators ...metadata.Decorator) {
	r.handle(fiber.MethodPost, path, h, decorators)
}

func (r *Router) Put(path string, h fiber.Handler, decorators ...metadata.Decorator) {
	r.handle(fiber.MethodPut, path, h, decorators)
}

func (r *Router) Patch(path string, h fiber.Handler, decorators ...metadata.Decorator) {
	r.handle(fiber.MethodPatch, path, h, decorators)
}

func (r *Router) Delete(path string, h fiber.Handler, decorators ...metadata.Decorator) {
	r.handle(fiber.MethodDelete, path, h, decorators)
}

func (r *Router) handle(method, path string, h fiber.Handler, decorators []metadata.Decorator) {
	id := metadata.RouteID(method, joinPath(r.prefix, path))
	r.registry.Apply(id, decorators...)
	r.fiber.Add(method, path, r.guardHandler(id), h)
}

func (r *Router) guardHandler(id metadata.HandlerID) fiber.Handler {
	guards := r.guards
	class := r.class
	return func(c *fiber.Ctx) error {
		ec := NewExecutionContext(c, id, class)
		for _, g := range guards {
			if err := runGuard(g, ec); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

func joinPath(prefix, path string) string {
	if path == "" || path == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}
