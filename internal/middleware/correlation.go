package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
)

const correlationLocal = "correlation_id"

// maxCorrelationLength bounds ids accepted from callers before they are
// forwarded to the quiz backend.
const maxCorrelationLength = 128

// CorrelationID tags each request with an id taken from X-Correlation-ID or
// X-Request-ID, or generated. The id is echoed back, logged, and forwarded on
// every quiz backend call made for the request.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := incomingCorrelation(c)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocal, id)
		c.Set(quizsource.CorrelationHeader, id)
		c.SetUserContext(quizsource.WithCorrelationID(c.UserContext(), id))

		return c.Next()
	}
}

func incomingCorrelation(c *fiber.Ctx) string {
	for _, header := range []string{quizsource.CorrelationHeader, fiber.HeaderXRequestID} {
		value := strings.TrimSpace(c.Get(header))
		if value != "" && len(value) <= maxCorrelationLength {
			return value
		}
	}
	return ""
}

// GetCorrelationID returns the correlation id of the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(correlationLocal).(string); ok {
		return id
	}
	return quizsource.CorrelationID(c.UserContext())
}
