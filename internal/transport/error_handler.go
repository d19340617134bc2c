package transport

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/expiry-notifier/internal/domain"
	"go.uber.org/zap"
)

const msgInternal = "internal server error"

// Envelope is the body of every API response.
type Envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func OK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Message: message, Data: data})
}

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := classify(err)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request error", fields...)
		} else {
			logger.Warn("request rejected", fields...)
		}

		return c.Status(code).JSON(Envelope{
			Error:   true,
			Message: message,
		})
	}
}

// classify maps an error to a status and the message safe to return.
// Store faults never leak their detail.
func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrDelivery):
		return fiber.StatusBadGateway, err.Error()
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}
