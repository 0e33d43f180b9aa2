package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/flashmind-analytics-api/internal/config"
	"github.com/noah-isme/flashmind-analytics-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	QuizSource   string            `json:"quizSource"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Pinger reports whether an optional dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthCheck returns a handler that reports application health information.
// Optional dependencies that fail their ping mark the service as degraded
// without failing the probe.
func HealthCheck(cfg config.Config, pingers map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			QuizSource:  cfg.QuizSourceDriver,
		}

		if len(pingers) > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()

			payload.Dependencies = make(map[string]string, len(pingers))
			for name, ping := range pingers {
				if err := ping(ctx); err != nil {
					payload.Dependencies[name] = "down"
					payload.Status = "degraded"
					continue
				}
				payload.Dependencies[name] = "up"
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
