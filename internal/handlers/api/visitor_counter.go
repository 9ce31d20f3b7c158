package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"hemkey/internal/config"
	"hemkey/internal/counter"
	"hemkey/internal/metrics"
	"hemkey/internal/models"
)

// CounterHandler serves the visitor counter API.
type CounterHandler struct {
	store counter.Store
	cfg   *config.Config
}

// NewCounterHandler creates a new visitor counter handler.
func NewCounterHandler(store counter.Store, cfg *config.Config) *CounterHandler {
	return &CounterHandler{store: store, cfg: cfg}
}

// Get returns the current visitor count.
func (h *CounterHandler) Get(c fiber.Ctx) error {
	count, err := h.store.Read(c.Context())
	metrics.RecordCounterOp("read", h.store.Backend(), err)
	if err != nil {
		slog.Error("failed to read visitor counter", "backend", h.store.Backend(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.CounterResponse{
			Success: false,
			Count:   0,
			Error:   "Failed to read visitor counter",
		})
	}

	return c.JSON(models.CounterResponse{
		Success: true,
		Count:   count,
		Message: "Visitor count retrieved successfully",
	})
}

// Increment registers one visit and returns the new count.
func (h *CounterHandler) Increment(c fiber.Ctx) error {
	count, err := h.store.Increment(c.Context())
	metrics.RecordCounterOp("increment", h.store.Backend(), err)
	if err != nil {
		slog.Error("failed to increment visitor counter", "backend", h.store.Backend(), "error", err)
		resp := models.CounterResponse{
			Success: false,
			Count:   0,
			Error:   err.Error(),
		}
		if h.cfg.IsDev() {
			resp.Details = fiber.Map{"backend": h.store.Backend()}
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.JSON(models.CounterResponse{
		Success: true,
		Count:   count,
		Message: "Visitor count incremented successfully",
	})
}
