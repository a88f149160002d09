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

// MenuHandler serves navigation menus.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler constructs the handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("component", "menu_handler").Logger(),
	}
}

// RegisterPublic wires the menu listing, filtered by ?position=.
func (h *MenuHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterAdmin wires menu and menu item management routes.
func (h *MenuHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", middleware.WithAuth(h.delete, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
	router.Post("/:id/items", h.createItem)
	router.Patch("/:id/items/:itemId", h.updateItem)
	router.Delete("/:id/items/:itemId", h.deleteItem)
}

func (h *MenuHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), c.Query("position"))
	if err != nil {
		return h.handleError(c, err, "failed to list menus")
	}
	return utils.SendSuccess(c, "menus retrieved", items)
}

func (h *MenuHandler) create(c *fiber.Ctx) error {
	var payload dto.MenuCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	menu, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to create menu")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "menu created", menu)
}

func (h *MenuHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MenuUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	menu, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update menu")
	}
	return utils.SendSuccess(c, "menu updated", menu)
}

func (h *MenuHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.handleError(c, err, "failed to delete menu")
	}
	return utils.SendSuccess(c, "menu deleted", nil)
}

func (h *MenuHandler) createItem(c *fiber.Ctx) error {
	menuID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MenuItemRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.CreateItem(c.UserContext(), menuID, payload)
	if err != nil {
		return h.handleError(c, err, "failed to create menu item")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "menu item created", item)
}

func (h *MenuHandler) updateItem(c *fiber.Ctx) error {
	menuID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MenuItemUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.UpdateItem(c.UserContext(), menuID, itemID, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update menu item")
	}
	return utils.SendSuccess(c, "menu item updated", item)
}

func (h *MenuHandler) deleteItem(c *fiber.Ctx) error {
	menuID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteItem(c.UserContext(), menuID, itemID); err != nil {
		return h.handleError(c, err, "failed to delete menu item")
	}
	return utils.SendSuccess(c, "menu item deleted", nil)
}

func (h *MenuHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "menu not found")
	case errors.Is(err, service.ErrMenuItemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "menu item not found")
	case errors.Is(err, service.ErrInvalidMenuParent):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", fiber.Map{"parent_id": "invalid"})
	case errors.Is(err, service.ErrInvalidMenuPosition):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid position")
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
