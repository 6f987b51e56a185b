package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/dto"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db            Pinger
	sessionDriver string
}

func NewHealthHandler(db Pinger, sessionDriver string) *HealthHandler {
	return &HealthHandler{db: db, sessionDriver: sessionDriver}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, dbStatus := "ok", "ok"
	if err := h.db.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Session:   h.sessionDriver,
	})
}
