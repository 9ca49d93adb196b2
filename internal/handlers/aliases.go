package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/models"
)

// ListAliases handles GET /v1/aliases
func (h *Handler) ListAliases(c *fiber.Ctx) error {
	list, err := h.aliasService.List(c.Context())
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(models.AliasListResponse{
		Aliases: list,
		Count:   len(list),
	})
}

// GetAlias handles GET /v1/aliases/:name
func (h *Handler) GetAlias(c *fiber.Ctx) error {
	name := c.Params("name")

	alias, err := h.aliasService.Get(c.Context(), name)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(alias)
}

// PutAlias handles PUT /v1/aliases/:name
func (h *Handler) PutAlias(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return h.respondBadRequest(c, fmt.Errorf("alias name is required"))
	}

	var body models.PutAliasRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
	}

	alias, err := h.aliasService.Put(c.Context(), name, &body)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(alias)
}

// DeleteAlias handles DELETE /v1/aliases/:name
func (h *Handler) DeleteAlias(c *fiber.Ctx) error {
	name := c.Params("name")

	if err := h.aliasService.Delete(c.Context(), name); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Alias deleted successfully",
		"name":    name,
	})
}

// ResolveAlias handles GET /v1/aliases/:name/resolve
func (h *Handler) ResolveAlias(c *fiber.Ctx) error {
	name := c.Params("name")

	target, err := h.aliasService.Resolve(c.Context(), name)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(models.ResolveResponse{
		Name:   name,
		Target: target,
	})
}
