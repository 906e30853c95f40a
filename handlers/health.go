package handlers

import (
	"time"

	"github.com/collabity/collabity-api/database"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	storage database.Storage
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage database.Storage) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.storage.HealthCheck(); err != nil {
		dbStatus = "unreachable"
	}

	status := fiber.Map{
		"status":    "ok",
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if dbStatus != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}

	return response.Success(c, status)
}
