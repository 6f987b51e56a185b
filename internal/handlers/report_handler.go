package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
	"github.com/swapify/swapify-backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	dev           bool
}

func NewReportHandler(reportService *services.ReportService, dev bool) *ReportHandler {
	return &ReportHandler{reportService: reportService, dev: dev}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req dto.CreateReportRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reportService.Create(c.UserContext(), userID, c.Params("id"), &req)
	switch {
	case errors.Is(err, services.ErrInvalidID):
		return fail(c, fiber.StatusBadRequest, "Invalid listing ID format")
	case errors.Is(err, services.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "Listing not found")
	case err != nil:
		return internalError(c, h.dev, "Failed to create report", err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// Admin endpoints

func (h *ReportHandler) List(c *fiber.Ctx) error {
	resp, err := h.reportService.List(c.UserContext(), c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return internalError(c, h.dev, "Failed to fetch reports", err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Action(c *fiber.Ctx) error {
	var req dto.ActionReportRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reportService.Action(c.UserContext(), c.Params("id"), &req)
	switch {
	case errors.Is(err, services.ErrInvalidID):
		return fail(c, fiber.StatusBadRequest, "Invalid report ID format")
	case errors.Is(err, services.ErrReportNotFound):
		return fail(c, fiber.StatusNotFound, "Report not found")
	case err != nil:
		return internalError(c, h.dev, "Failed to update report", err)
	}
	return c.JSON(report)
}
