package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/config"
	"github.com/relaygate/console/internal/events"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/models"
	"github.com/relaygate/console/internal/services"
	"github.com/relaygate/console/internal/snapshot"
)

// Gateway is the slice of the gateway client the handlers need
type Gateway interface {
	services.PointsFetcher
	services.UsageFetcher
}

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	// Services
	scatterService *services.ScatterService
	usageService   *services.UsageService
	aliasService   *services.AliasService
	adminService   *services.AdminService
}

// New creates a new handler instance. The chart configuration is validated
// here, so a misconfigured axis aborts startup.
func New(logger *logging.Logger, gw Gateway, cache snapshot.Store,
	registry services.AliasRegistry, bus events.Bus, chart config.ChartConfig,
) (*Handler, error) {
	scatterService, err := services.NewScatterService(logger, gw, cache, chart)
	if err != nil {
		return nil, err
	}

	return &Handler{
		logger:         logger,
		scatterService: scatterService,
		usageService:   services.NewUsageService(logger, gw, cache),
		aliasService:   services.NewAliasService(logger, registry, cache, bus),
		adminService:   services.NewAdminService(logger, cache, bus),
	}, nil
}

// respondServiceError maps a service error to its HTTP status
func (h *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status := fiber.StatusInternalServerError
		switch svcErr.Code {
		case services.CodeInvalidRequest:
			status = fiber.StatusBadRequest
		case services.CodeNotFound:
			status = fiber.StatusNotFound
		case services.CodeUpstreamUnavailable:
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    services.CodeInternal,
			Message: err.Error(),
		},
	})
}

// respondBadRequest reports a query or body parsing failure
func (h *Handler) respondBadRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    services.CodeInvalidRequest,
			Message: err.Error(),
		},
	})
}
