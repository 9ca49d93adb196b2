package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/models"
)

// Heatmap handles daily request-count heatmap requests
// GET /v1/analytics/heatmap?days=180
func (h *Handler) Heatmap(c *fiber.Ctx) error {
	days, err := models.ParseHeatmapDays(c.Query("days"))
	if err != nil {
		return h.respondBadRequest(c, err)
	}

	grid, err := h.usageService.Heatmap(c.Context(), days)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(grid)
}

// UsageSummary handles usage summary requests
// GET /v1/analytics/usage?window=720h
func (h *Handler) UsageSummary(c *fiber.Ctx) error {
	window, err := models.ParseUsageWindow(c.Query("window"))
	if err != nil {
		return h.respondBadRequest(c, err)
	}

	summary, err := h.usageService.Summary(c.Context(), window)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(summary)
}
