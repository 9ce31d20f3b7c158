package api

import (
	"github.com/gofiber/fiber/v3"

	"hemkey/internal/models"
)

// HealthHandler answers the liveness probe.
type HealthHandler struct {
	backend string
}

// NewHealthHandler creates a health handler reporting the counter backend.
func NewHealthHandler(counterBackend string) *HealthHandler {
	return &HealthHandler{backend: counterBackend}
}

// Check reports that the process is serving. It does not touch the store.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:         "ok",
		CounterBackend: h.backend,
	})
}
