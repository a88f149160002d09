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

// AdminContactHandler exposes admin contact endpoints.
type AdminContactHandler struct {
	service service.AdminContactService
	logger  zerolog.Logger
}

// NewAdminContactHandler constructs the handler.
func NewAdminContactHandler(service service.AdminContactService, logger zerolog.Logger) *AdminContactHandler {
	return &AdminContactHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_contact_handler").Logger(),
	}
}

// Register attaches routes. Deletions need an admin; editors may triage.
func (h *AdminContactHandler) Register(router fiber.Router) {
	adminOnly := middleware.AuthOptions{Role: middleware.AuthRoleAdmin}

	router.Get("", h.list)
	router.Post("/bulk-delete", middleware.WithAuth(h.bulkDelete, adminOnly))
	router.Get("/:id", h.get)
	router.Patch("/:id/read", h.markRead)
	router.Delete("/:id", middleware.WithAuth(h.delete, adminOnly))
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

func (h *AdminContactHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	unread, err := parseQueryBool(c, "unread")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.AdminContactListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Unread:   unread,
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list contact messages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list contacts")
	}

	meta := fiber.Map{
		"pagination": result.Pagination,
		"filters": fiber.Map{
			"search": req.Search,
			"unread": req.Unread,
		},
	}

	return utils.OK(c, result.Items, "contact messages retrieved", meta)
}

func (h *AdminContactHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	message, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, id, "failed to fetch contact message")
	}

	return utils.OK(c, message, "contact message retrieved", nil)
}

func (h *AdminContactHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := markReadRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	read := true
	if payload.Read != nil {
		read = *payload.Read
	}

	message, err := h.service.MarkRead(c.UserContext(), id, read)
	if err != nil {
		return h.handleError(c, err, id, "failed to update contact message")
	}

	return utils.OK(c, message, "contact message updated", nil)
}

func (h *AdminContactHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.handleError(c, err, id, "failed to delete contact message")
	}

	return utils.SendSuccess(c, "contact message deleted", nil)
}

func (h *AdminContactHandler) bulkDelete(c *fiber.Ctx) error {
	var payload dto.BulkIDsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.BulkDelete(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to bulk delete contact messages")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete contact messages")
	}

	return utils.SendSuccess(c, "contact messages deleted", result)
}

func (h *AdminContactHandler) handleError(c *fiber.Ctx, err error, id uint, message string) error {
	if errors.Is(err, service.ErrAdminContactNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "contact message not found")
	}
	requestLogger(h.logger, c).Error().Err(err).Uint("contact_id", id).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
