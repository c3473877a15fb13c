// Package middleware provides authentication, rate limiting and logging
// middleware for the application.
package middleware

import (
	"context"

	"quill/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "x-access-token"

// TokenRequired enforces authentication on protected routes. A missing token
// is rejected with 403, an invalid or expired one with 401. On success the
// verified user id is stored under c.Locals("userID"); handlers must take the
// identity from there and never from a client-supplied field.
func TokenRequired(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "No token provided!",
			})
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized!",
			})
		}

		c.Locals("userID", userID)
		// Sync to UserContext so the context-aware logger picks it up.
		ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
