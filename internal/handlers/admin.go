package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/models"
)

// InvalidateCache drops snapshot cache entries on this replica and
// broadcasts the invalidation to the others
// POST /admin/cache/invalidate
func (h *Handler) InvalidateCache(c *fiber.Ctx) error {
	var body models.InvalidateCacheRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_JSON",
					Message: "Failed to parse JSON body",
					Details: map[string]interface{}{"error": err.Error()},
				},
			})
		}
	}

	dropped, broadcast, err := h.adminService.InvalidateCache(c.Context(), body.Prefix)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(models.InvalidateCacheResponse{
		Dropped:   dropped,
		Broadcast: broadcast,
	})
}
