package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
)

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// internalError logs err against the request and writes a 500. The cause
// is only echoed back in development.
func internalError(c *fiber.Ctx, dev bool, message string, err error) error {
	slog.Error(message,
		"request_id", identity.RequestID(c),
		"method", utils.CopyString(c.Method()),
		"path", utils.CopyString(c.Path()),
		"error", err,
	)
	resp := dto.ErrorResponse{Error: true, Message: message}
	if dev {
		resp.Detail = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

// parseBody decodes the JSON body into v and runs its validate tags.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return err
	}
	return dto.Validate(v)
}
