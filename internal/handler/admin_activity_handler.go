package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// AdminActivityHandler exposes the audit trail to the admin console.
type AdminActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(service service.ActivityService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:entity/:id", h.history)
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	entityID, err := parseQueryUint(c, "entity_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	since, err := parseQueryTime(c, "since")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	until, err := parseQueryTime(c, "until")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.AdminActivityListRequest{
		Page:            page,
		PageSize:        pageSize,
		Entity:          c.Query("entity"),
		EntityID:        entityID,
		Action:          c.Query("action"),
		ActorType:       c.Query("actor_type"),
		UserID:          userID,
		ActorIdentifier: c.Query("actor"),
		Since:           since,
		Until:           until,
	}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidActivityFilter) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity logs")
	}

	meta := fiber.Map{
		"pagination": response.Pagination,
		"filters": fiber.Map{
			"entity":     req.Entity,
			"action":     req.Action,
			"actor_type": req.ActorType,
			"actor":      req.ActorIdentifier,
		},
	}

	return utils.OK(c, response.Items, "activity logs retrieved", meta)
}

func (h *AdminActivityHandler) history(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := h.service.History(c.UserContext(), c.Params("entity"), id)
	if err != nil {
		if errors.Is(err, service.ErrInvalidActivityFilter) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("entity_id", id).Msg("failed to load entity history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load entity history")
	}

	return utils.SendSuccess(c, "entity history retrieved", entries)
}
