package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/middleware"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// BannerHandler serves home page banners.
type BannerHandler struct {
	service service.BannerService
	logger  zerolog.Logger
}

// NewBannerHandler constructs the handler.
func NewBannerHandler(service service.BannerService, logger zerolog.Logger) *BannerHandler {
	return &BannerHandler{
		service: service,
		logger:  logger.With().Str("component", "banner_handler").Logger(),
	}
}

// RegisterPublic wires the active banner listing.
func (h *BannerHandler) RegisterPublic(router fiber.Router) {
	router.Get("", func(c *fiber.Ctx) error { return h.list(c, true) })
}

// RegisterAdmin wires banner management routes.
func (h *BannerHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", func(c *fiber.Ctx) error { return h.list(c, false) })
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", middleware.WithAuth(h.delete, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
}

func (h *BannerHandler) list(c *fiber.Ctx, activeOnly bool) error {
	items, err := h.service.List(c.UserContext(), activeOnly)
	if err != nil {
		return h.handleError(c, err, "failed to list banners")
	}
	return utils.SendSuccess(c, "banners retrieved", items)
}

func (h *BannerHandler) create(c *fiber.Ctx) error {
	var payload dto.BannerCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	banner, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to create banner")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "banner created", banner)
}

func (h *BannerHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.BannerUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	banner, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update banner")
	}
	return utils.SendSuccess(c, "banner updated", banner)
}

func (h *BannerHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.handleError(c, err, "failed to delete banner")
	}
	return utils.SendSuccess(c, "banner deleted", nil)
}

func (h *BannerHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrBannerNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "banner not found")
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
