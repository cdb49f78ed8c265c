package middleware

import (
	"devhub/internal/service"

	"github.com/gofiber/fiber/v3"
)

// TokenHeader is the custom header carrying the session token.
const TokenHeader = "x-auth-token"

// userIDKey is the locals key under which the gate stores the caller's id.
const userIDKey = "userID"

// RequireAuth is the access gate: it resolves the token header to a user id
// before any downstream logic runs. Requests without a token, or with one
// that fails verification, stop here with a 401.
func RequireAuth(tokens *service.TokenService) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "No token, authorization denied",
			})
		}

		userID, err := tokens.VerifySession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": "Invalid Token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated caller's id set by RequireAuth, or ""
// on an unauthenticated request.
func UserID(c fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok {
		return id
	}
	return ""
}
