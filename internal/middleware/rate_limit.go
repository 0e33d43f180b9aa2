package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/flashmind-analytics-api/internal/utils"
)

// RateLimit throttles each caller, keyed by user id when authenticated and by
// IP otherwise. Aggregation fans out to the quiz backend, so the limit also
// bounds upstream load.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 30
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			caller := c.IP()
			if userID, ok := c.Locals("user_id").(uint); ok && userID != 0 {
				caller = fmt.Sprintf("user-%d", userID)
			}
			return fmt.Sprintf("%s:%s", identifier, caller)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, fiber.StatusTooManyRequests, "too many requests")
		},
	})
}
