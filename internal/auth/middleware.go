package auth

import (
	"github.com/gofiber/fiber/v2"
)

const userIDLocalKey = "auth.user_id"

const (
	msgProvideToken = "Please provide the token"
	msgInvalidToken = "Invalid token"
)

// Middleware rejects requests without a valid bearer token. A missing or
// ill-formed header is 422; a token that fails verification is 401.
func (a *Authenticator) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnprocessableEntity, msgProvideToken)
		}

		claims, err := a.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, msgInvalidToken)
		}

		c.Locals(userIDLocalKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *fiber.Ctx) (uint64, bool) {
	id, ok := c.Locals(userIDLocalKey).(uint64)
	return id, ok
}
