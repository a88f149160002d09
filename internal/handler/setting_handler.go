package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// SettingHandler exposes site-wide settings.
type SettingHandler struct {
	service service.SettingService
	logger  zerolog.Logger
}

// NewSettingHandler constructs the handler.
func NewSettingHandler(service service.SettingService, logger zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		service: service,
		logger:  logger.With().Str("component", "setting_handler").Logger(),
	}
}

// RegisterPublic wires the public settings listing.
func (h *SettingHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublic)
}

// RegisterAdmin wires setting management.
func (h *SettingHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/:name", h.upsert)
}

func (h *SettingHandler) listPublic(c *fiber.Ctx) error {
	settings, err := h.service.ListPublic(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list settings")
	}
	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *SettingHandler) upsert(c *fiber.Ctx) error {
	var payload dto.SettingUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	setting, err := h.service.Upsert(c.UserContext(), c.Params("name"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSetting):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("setting", c.Params("name")).Msg("failed to save setting")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to save setting")
		}
	}

	return utils.SendSuccess(c, "setting saved", setting)
}
