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

// ProductHandler serves the product catalogue to visitors and the admin console.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler constructs the handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("component", "product_handler").Logger(),
	}
}

// RegisterPublic wires the read-only catalogue routes.
func (h *ProductHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.listPublic)
	router.Get("/:slug", h.getBySlug)
}

// RegisterAdmin wires the catalogue management routes.
func (h *ProductHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listAdmin)
	router.Post("", h.create)
	router.Post("/bulk-active", h.setActive)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", middleware.WithAuth(h.delete, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
}

func (h *ProductHandler) listPublic(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *ProductHandler) listAdmin(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *ProductHandler) list(c *fiber.Ctx, activeOnly bool) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.List(c.UserContext(), dto.ProductListRequest{
		Search:     c.Query("search"),
		ActiveOnly: activeOnly,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list products")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return utils.OK(c, result.Items, "products retrieved", fiber.Map{"pagination": result.Pagination})
}

func (h *ProductHandler) getBySlug(c *fiber.Ctx) error {
	product, err := h.service.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.handleError(c, err, "failed to fetch product")
	}
	return utils.SendSuccess(c, "product retrieved", product)
}

func (h *ProductHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "failed to fetch product")
	}
	return utils.SendSuccess(c, "product retrieved", product)
}

func (h *ProductHandler) create(c *fiber.Ctx) error {
	var payload dto.ProductCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	product, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to create product")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "product created", product)
}

func (h *ProductHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProductUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	product, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update product")
	}
	return utils.SendSuccess(c, "product updated", product)
}

func (h *ProductHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.handleError(c, err, "failed to delete product")
	}
	return utils.SendSuccess(c, "product deleted", nil)
}

func (h *ProductHandler) setActive(c *fiber.Ctx) error {
	var payload dto.BulkActiveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.SetActive(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to update products")
	}
	return utils.SendSuccess(c, "products updated", result)
}

func (h *ProductHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidPrice):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", fiber.Map{"price": "gte"})
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
