package main

import (
	"sort"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"

	"cbac-backend/internal/auth"
	"cbac-backend/internal/engine"
	"cbac-backend/internal/metadata"
)

// In-memory orders backing the demo routes.
type orderHandler struct {
	mu     sync.Mutex
	nextID int
	orders map[int]fiber.Map
}

func newOrderHandler() *orderHandler {
	return &orderHandler{nextID: 1, orders: make(map[int]fiber.Map)}
}

func (h *orderHandler) list(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.orders))
	for id := range h.orders {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]fiber.Map, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.orders[id])
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *orderHandler) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return engine.NewAppError("INVALID_ID", fiber.StatusBadRequest, "Order id must be a number")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	order, ok := h.orders[id]
	if !ok {
		return engine.NewAppError("NOT_FOUND", fiber.StatusNotFound, "order with id "+strconv.Itoa(id)+" not found")
	}
	return c.JSON(fiber.Map{"data": order})
}

func (h *orderHandler) create(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", fiber.StatusBadRequest, "Invalid request body")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	order := fiber.Map{"id": id, "created_by": auth.GetUser(c).ID}
	for k, v := range body {
		if k != "id" && k != "created_by" {
			order[k] = v
		}
	}
	h.orders[id] = order
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": order})
}

func (h *orderHandler) remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return engine.NewAppError("INVALID_ID", fiber.StatusBadRequest, "Order id must be a number")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.orders, id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *orderHandler) stats(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(fiber.Map{"data": fiber.Map{"count": len(h.orders)}})
}

func registerOrderRoutes(r *engine.Router, h *orderHandler) {
	orders := r.Group("/api/orders", metadata.Roles("sales", "support"))
	orders.Get("/_stats", h.stats)
	orders.Get("/", h.list, metadata.RequirePermissions("orders:read"))
	orders.Get("/:id", h.get, metadata.RequirePermissions("orders:read"))
	orders.Post("/", h.create, metadata.RequirePermissions("orders:write"), metadata.Roles("sales"))
	orders.Delete("/:id", h.remove, metadata.RequirePermissions("orders:read", "orders:delete"), metadata.Roles("admin"))
}
