package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/relaygate/console/internal/config"
	"github.com/relaygate/console/internal/events"
	"github.com/relaygate/console/internal/handlers"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/middleware"
	"github.com/relaygate/console/internal/services"
	"github.com/relaygate/console/internal/snapshot"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, gw handlers.Gateway,
	cache snapshot.Store, registry services.AliasRegistry, bus events.Bus,
	cfg config.Config,
) (*handlers.Handler, error) {
	// Create handler instance
	h, err := handlers.New(logger, gw, cache, registry, bus, cfg.Chart)
	if err != nil {
		return nil, err
	}

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Analytics Routes
	v1.Get("/analytics/scatter", h.Scatter)
	v1.Get("/analytics/scatter/threshold", h.ThresholdStats)
	v1.Post("/analytics/scatter/threshold", h.ThresholdStatsPost)
	v1.Get("/analytics/heatmap", h.Heatmap)
	v1.Get("/analytics/usage", h.UsageSummary)

	// Alias Management Routes
	v1.Get("/aliases", h.ListAliases)
	v1.Get("/aliases/:name", h.GetAlias)
	v1.Put("/aliases/:name", h.PutAlias)
	v1.Delete("/aliases/:name", h.DeleteAlias)
	v1.Get("/aliases/:name/resolve", h.ResolveAlias)

	// Admin Routes (protected by API key)
	admin := app.Group("/admin", authMiddleware)
	admin.Post("/cache/invalidate", h.InvalidateCache)

	// 404 handler
	app.Use(h.NotFound)

	return h, nil
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, gw handlers.Gateway, cache snapshot.Store,
	registry services.AliasRegistry, bus events.Bus, cfg config.Config,
) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "Relay Console",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	if _, err := Setup(app, logger, gw, cache, registry, bus, cfg); err != nil {
		return nil, err
	}

	return app, nil
}
