package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope of every analytics API response. Error
// responses carry the request's correlation id so a caller can quote it.
type APIResponse struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Message       string      `json:"message"`
	Meta          interface{} `json:"meta,omitempty"`
	Details       interface{} `json:"details,omitempty"`
	CorrelationID string      `json:"correlationId,omitempty"`
}

// SendSuccess sends a 200 payload without metadata.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return OK(c, data, message, nil)
}

// OK sends a 200 payload carrying optional metadata.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: orDefault(message, "success"),
		Meta:    meta,
	})
}

// SendError sends an error payload with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail sends an error payload with optional details.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	correlation, _ := c.Locals("correlation_id").(string)

	return c.Status(status).JSON(APIResponse{
		Success:       false,
		Message:       orDefault(message, "error"),
		Details:       details,
		CorrelationID: correlation,
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
