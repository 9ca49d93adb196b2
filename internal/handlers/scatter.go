package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/models"
)

// Scatter handles GET scatter chart requests
// GET /v1/analytics/scatter?window=24h&group_by=user_id&limit=5000
func (h *Handler) Scatter(c *fiber.Ctx) error {
	query, err := models.ParseScatterQuery(
		c.Query("window"),
		c.Query("group_by"),
		c.Query("limit"),
	)
	if err != nil {
		return h.respondBadRequest(c, err)
	}

	resp, err := h.scatterService.Scatter(c.Context(), query)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(resp)
}

// ThresholdStats handles GET threshold statistics requests
// GET /v1/analytics/scatter/threshold?threshold=12.5&window=24h&group_by=user_id&limit=5000
func (h *Handler) ThresholdStats(c *fiber.Ctx) error {
	query, err := models.ParseScatterQuery(
		c.Query("window"),
		c.Query("group_by"),
		c.Query("limit"),
	)
	if err != nil {
		return h.respondBadRequest(c, err)
	}

	threshold, err := models.ParseThreshold(c.Query("threshold"))
	if err != nil {
		return h.respondBadRequest(c, err)
	}

	return h.executeThresholdStats(c, query, threshold)
}

// ThresholdStatsPost handles POST threshold statistics requests with JSON body
// POST /v1/analytics/scatter/threshold
func (h *Handler) ThresholdStatsPost(c *fiber.Ctx) error {
	var body struct {
		Window    string   `json:"window"`
		GroupBy   string   `json:"group_by"`
		Limit     int      `json:"limit"`
		Threshold *float64 `json:"threshold"`
	}

	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
	}

	limit := ""
	if body.Limit != 0 {
		limit = strconv.Itoa(body.Limit)
	}

	query, err := models.ParseScatterQuery(body.Window, body.GroupBy, limit)
	if err != nil {
		return h.respondBadRequest(c, err)
	}

	if body.Threshold != nil && *body.Threshold < 0 {
		return h.respondBadRequest(c, fmt.Errorf("threshold must be non-negative, got %v", *body.Threshold))
	}

	return h.executeThresholdStats(c, query, body.Threshold)
}

// executeThresholdStats runs the stats computation and writes the response.
// A nil stats result serializes as {"stats": null}, the no-threshold state.
func (h *Handler) executeThresholdStats(c *fiber.Ctx, query *models.ScatterQuery, threshold *float64) error {
	stats, err := h.scatterService.ThresholdStats(c.Context(), query, threshold)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(models.ThresholdStatsResponse{Stats: stats})
}
