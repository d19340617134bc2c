package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kursadbilgin/expiry-notifier/internal/observability"
	"go.uber.org/zap"
)

const correlationLocalKey = "correlationId"

// CorrelationMiddleware tags every request with X-Request-ID, generating one
// when the caller sent none, and carries it in the user context for services.
func CorrelationMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		correlationID := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		c.Set(fiber.HeaderXRequestID, correlationID)
		c.Locals(correlationLocalKey, correlationID)
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), correlationID))
		return c.Next()
	}
}

func RequestLogger(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		}

		observability.WithContextLogger(logger, c.UserContext()).Info("request handled",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
