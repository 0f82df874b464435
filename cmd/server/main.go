package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"cbac-backend/internal/admin"
	"cbac-backend/internal/auth"
	"cbac-backend/internal/config"
	"cbac-backend/internal/engine"
	"cbac-backend/internal/instrument"
	"cbac-backend/internal/metadata"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	log := hclog.New(&hclog.LoggerOptions{
		Name:              "cbac",
		Level:             hclog.LevelFromString(cfg.Log.Level),
		JSONFormat:        cfg.Log.IsJSON(),
		IndependentLevels: true,
	})
	log.Info("config loaded", "port", cfg.Server.Port, "diagnostics", cfg.Guard.Diagnostics, "users", len(cfg.Users))

	// 3. Diagnostics sink for the permission guard
	var sinkLogger hclog.Logger
	if cfg.Guard.Diagnostics {
		sinkLogger = log.Named("guard")
		sinkLogger.SetLevel(hclog.Debug)
		log.Warn("guard diagnostics enabled; permission lists will be logged")
	}
	sink := instrument.New(cfg.Guard.Diagnostics, sinkLogger)

	// 4. Registry, reflector and guard
	reg := metadata.NewRegistry()
	guard := auth.NewPermissionsGuard(metadata.NewReflector(reg), sink, log.Named("guard"))

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: engine.NewErrorHandler(log.Named("http")),
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	// 6. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 7. Identity stage for all API routes
	app.Use("/api", auth.UserMiddleware(auth.StaticUsers(toUsers(cfg.Users), cfg.Identity.Header)))

	// 8. Guarded routes
	router := engine.NewRouter(app, reg, guard)
	admin.RegisterAdminRoutes(router, admin.NewHandler(reg))
	registerOrderRoutes(router, newOrderHandler())

	for _, id := range reg.IDs() {
		log.Debug("handler registered", "handler", string(id))
	}

	// 9. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func toUsers(users []config.UserConfig) []*metadata.UserContext {
	out := make([]*metadata.UserContext, 0, len(users))
	for _, u := range users {
		perms := make([]metadata.Permission, len(u.Permissions))
		for i, p := range u.Permissions {
			perms[i] = metadata.Permission(p)
		}
		out = append(out, &metadata.UserContext{ID: u.ID, Roles: u.Roles, Permissions: perms})
	}
	return out
}
