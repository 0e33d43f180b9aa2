package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flashmind-analytics-api/internal/observability"
)

// AnalyticsPathPrefix selects the requests recorded by Observability.
const AnalyticsPathPrefix = "/api/v1/analytics"

// slowRequest is the latency above which a successful request logs at warn.
const slowRequest = time.Second

// Observability records Prometheus metrics and one access log line per
// analytics request. Other paths pass through untouched.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), AnalyticsPathPrefix) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		recordAnalyticsRequest(logger, c, time.Since(start))
		return err
	}
}

func recordAnalyticsRequest(logger zerolog.Logger, c *fiber.Ctx, duration time.Duration) {
	route := routeTemplate(c)
	method := c.Method()
	status := c.Response().StatusCode()
	statusLabel := strconv.Itoa(status)

	observability.AnalyticsRequests().WithLabelValues(method, route, statusLabel).Inc()
	observability.AnalyticsLatency().WithLabelValues(method, route).Observe(duration.Seconds())
	if status >= fiber.StatusBadRequest {
		observability.AnalyticsErrors().WithLabelValues(method, route, statusLabel).Inc()
	}

	level, message := zerolog.InfoLevel, "analytics request completed"
	switch {
	case status >= fiber.StatusInternalServerError:
		level, message = zerolog.ErrorLevel, "analytics request failed"
	case status >= fiber.StatusBadRequest:
		level, message = zerolog.WarnLevel, "analytics request rejected"
	case duration > slowRequest:
		level, message = zerolog.WarnLevel, "analytics request completed slowly"
	}

	event := logger.WithLevel(level).
		Str("correlation_id", GetCorrelationID(c)).
		Str("route", route).
		Str("method", method).
		Int("status", status).
		Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
		Str("latency_bucket", latencyBucket(duration))
	if quizID := c.Params("id"); quizID != "" {
		event = event.Str("quiz_id", quizID)
	}
	if userID, ok := c.Locals("user_id").(uint); ok {
		event = event.Uint("user_id", userID)
	}
	event.Msg(message)
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}

var latencyBuckets = []struct {
	limit time.Duration
	label string
}{
	{25 * time.Millisecond, "<=25ms"},
	{50 * time.Millisecond, "<=50ms"},
	{100 * time.Millisecond, "<=100ms"},
	{250 * time.Millisecond, "<=250ms"},
	{500 * time.Millisecond, "<=500ms"},
	{time.Second, "<=1s"},
}

func latencyBucket(duration time.Duration) string {
	for _, bucket := range latencyBuckets {
		if duration <= bucket.limit {
			return bucket.label
		}
	}
	return ">1s"
}
