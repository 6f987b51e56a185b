package middleware

import (
	"context"
	"log/slog"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: identity.ContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// SessionChecker reports whether a token is the user's current session.
type SessionChecker interface {
	IsLive(ctx context.Context, userID, token string) (bool, error)
}

// SessionRequired rejects tokens that verify but were superseded by a later
// login or cleared by logout. Must run after JWTProtected.
func SessionRequired(sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}

		live, err := sessions.IsLive(c.UserContext(), userID.Hex(), identity.GetToken(c))
		if err != nil {
			slog.Error("session lookup failed",
				"request_id", identity.RequestID(c),
				"user_id", userID.Hex(),
				"error", err,
			)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if !live {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Token has been invalidated.",
			})
		}
		return c.Next()
	}
}
