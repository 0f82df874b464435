package admin

import (
	"github.com/gofiber/fiber/v2"

	"cbac-backend/internal/engine"
	"cbac-backend/internal/metadata"
)

// RoutesPermission guards the introspection endpoints.
const RoutesPermission metadata.Permission = "routes:read"

// Handler exposes the annotations recorded in the registry.
type Handler struct {
	registry  *metadata.Registry
	reflector *metadata.Reflector
}

func NewHandler(reg *metadata.Registry) *Handler {
	return &Handler{registry: reg, reflector: metadata.NewReflector(reg)}
}

// RouteInfo describes one registered handler or group.
type RouteInfo struct {
	Handler     metadata.HandlerID    `json:"handler"`
	Group       bool                  `json:"group"`
	Roles       []metadata.Role       `json:"roles,omitempty"`
	Permissions []metadata.Permission `json:"permissions,omitempty"`
	Restricted  bool                  `json:"restricted"`
}

// ListRoutes handles GET /api/_admin/routes.
func (h *Handler) ListRoutes(c *fiber.Ctx) error {
	ids := h.registry.IDs()
	routes := make([]RouteInfo, 0, len(ids))
	for _, id := range ids {
		routes = append(routes, h.describe(id))
	}
	return c.JSON(fiber.Map{"data": routes})
}

// GetRoute handles GET /api/_admin/routes/:method/*, e.g.
// /api/_admin/routes/DELETE/api/orders/:id.
func (h *Handler) GetRoute(c *fiber.Ctx) error {
	id := metadata.RouteID(c.Params("method"), "/"+c.Params("*"))
	if !h.registry.Has(id) {
		return engine.NewAppError("NOT_FOUND", fiber.StatusNotFound, "No handler registered as "+string(id))
	}
	return c.JSON(fiber.Map{"data": h.describe(id)})
}

func (h *Handler) describe(id metadata.HandlerID) RouteInfo {
	info := RouteInfo{Handler: id, Group: id.IsGroup()}
	info.Roles, _ = h.reflector.Roles(id)
	perms, ok, valid := h.reflector.Permissions(id)
	if ok {
		info.Restricted = true
		if valid {
			info.Permissions = perms
		}
	}
	return info
}

// RegisterAdminRoutes registers the introspection routes under /api/_admin.
func RegisterAdminRoutes(r *engine.Router, h *Handler) {
	admin := r.Group("/api/_admin")
	admin.Get("/routes", h.ListRoutes, metadata.RequirePermissions(RoutesPermission))
	admin.Get("/routes/:method/*", h.GetRoute, metadata.RequirePermissions(RoutesPermission))
}
