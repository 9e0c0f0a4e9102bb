package middleware

import (
	"time"

	"docmanager/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger emits one structured log line per request and threads the
// request ID through as the correlation ID.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), rid))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		observability.GlobalLogger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"correlation_id", rid,
		)
		return err
	}
}
