package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/flashmind-analytics-api/internal/config"
	"github.com/noah-isme/flashmind-analytics-api/internal/handler"
	"github.com/noah-isme/flashmind-analytics-api/internal/middleware"
	"github.com/noah-isme/flashmind-analytics-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AnalyticsHandler *handler.AnalyticsHandler
	JWTMiddleware    fiber.Handler
	HealthPingers    map[string]handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthPingers))

	if deps.AnalyticsHandler == nil {
		return
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	analytics := api.Group("/analytics",
		jwtMiddleware,
		middleware.RequireRole(middleware.RoleProfessor, middleware.RoleAdmin),
		middleware.RateLimit("analytics", cfg.RateLimitMax, rateLimitWindow(cfg)),
	)
	deps.AnalyticsHandler.Register(analytics)
}

func rateLimitWindow(cfg config.Config) time.Duration {
	if cfg.RateLimitWindow <= 0 {
		return time.Minute
	}
	return cfg.RateLimitWindow
}
