package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID primitive.ObjectID, email string) (bool, error)
}

// AdminRequired admits callers whose stored role is admin or whose email is
// on the ADMIN_EMAILS allow-list. Must run after JWTProtected.
func AdminRequired(admins AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		ok, err := admins.IsAdmin(c.UserContext(), userID, identity.GetEmail(c))
		if err != nil {
			slog.Error("admin check failed", "user_id", userID.Hex(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
