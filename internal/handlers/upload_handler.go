package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
	"github.com/swapify/swapify-backend/internal/services"
)

type UploadHandler struct {
	uploader services.MediaUploader
}

func NewUploadHandler(uploader services.MediaUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload accepts multipart "files" and hands them to the media driver. A
// CDN response is relayed as-is.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Expected multipart form data")
	}
	files := form.File["files"]
	if err := services.ValidateUploads(files); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.uploader.Upload(c.UserContext(), files)
	if err != nil {
		slog.Error("upload failed", "request_id", identity.RequestID(c), "files", len(files), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file"})
	}

	if result.Raw != nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(result.Raw)
	}
	return c.JSON(dto.UploadResponse{Files: result.Files})
}
