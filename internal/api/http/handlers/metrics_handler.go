package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-bot/internal/observability"
)

// MetricsHandler exposes interaction counters for scraping.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler returns a new handler instance.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Dump returns the current counter snapshot.
func (h *MetricsHandler) Dump(c *fiber.Ctx) error {
	interactions, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"interactions": interactions,
		"errors":       errs,
	})
}
