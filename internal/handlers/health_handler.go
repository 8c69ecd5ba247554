package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sebridge/checkin/internal/database"
	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/sites"
)

type HealthHandler struct {
	registry *sites.Registry
}

func NewHealthHandler(registry *sites.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		SiteCount: len(h.registry.All()),
	})
}
