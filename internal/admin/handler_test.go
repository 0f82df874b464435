package admin

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbac-backend/internal/auth"
	"cbac-backend/internal/engine"
	"cbac-backend/internal/metadata"
)

func newAdminApp(user *metadata.UserContext) (*fiber.App, *metadata.Registry) {
	app := fiber.New(fiber.Config{ErrorHandler: engine.NewErrorHandler(nil)})
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			auth.SetUser(c, user)
		}
		return c.Next()
	})

	reg := metadata.NewRegistry()
	r := engine.NewRouter(app, reg, auth.NewPermissionsGuard(metadata.NewReflector(reg), nil, nil))
	RegisterAdminRoutes(r, NewHandler(reg))

	orders := r.Group("/api/orders", metadata.Roles("sales"))
	orders.Get("/_stats", func(c *fiber.Ctx) error { return nil })
	orders.Delete("/:id", func(c *fiber.Ctx) error { return nil },
		metadata.RequirePermissions("orders:read", "orders:delete"), metadata.Roles("admin"))
	return app, reg
}

func TestListRoutes(t *testing.T) {
	app, _ := newAdminApp(&metadata.UserContext{ID: "ops", Permissions: []metadata.Permission{RoutesPermission}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/_admin/routes", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Data []RouteInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	byID := make(map[metadata.HandlerID]RouteInfo)
	for _, r := range body.Data {
		byID[r.Handler] = r
	}

	del := byID["DELETE /api/orders/:id"]
	assert.True(t, del.Restricted)
	assert.Equal(t, []metadata.Permission{"orders:read", "orders:delete"}, del.Permissions)
	assert.Equal(t, []metadata.Role{"admin"}, del.Roles)

	stats := byID["GET /api/orders/_stats"]
	assert.False(t, stats.Restricted)
	assert.Empty(t, stats.Permissions)

	group := byID["GROUP /api/orders"]
	assert.True(t, group.Group)
	assert.Equal(t, []metadata.Role{"sales"}, group.Roles)

	assert.True(t, byID["GET /api/_admin/routes"].Restricted)
}

func TestGetRoute(t *testing.T) {
	app, _ := newAdminApp(&metadata.UserContext{ID: "ops", Permissions: []metadata.Permission{RoutesPermission}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/_admin/routes/DELETE/api/orders/:id", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Data RouteInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, metadata.HandlerID("DELETE /api/orders/:id"), body.Data.Handler)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/_admin/routes/PATCH/api/orders/:id", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAdminRoutesRequirePermission(t *testing.T) {
	app, _ := newAdminApp(nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/_admin/routes", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	app, _ = newAdminApp(&metadata.UserContext{ID: "carol", Permissions: []metadata.Permission{"orders:read"}})
	resp, err = app.Test(httptest.NewRequest("GET", "/api/_admin/routes", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
