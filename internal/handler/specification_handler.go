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

// SpecificationHandler serves the specification catalogue and the
// specification values of product variants.
type SpecificationHandler struct {
	specifications service.SpecificationService
	values         service.ProductSpecificationService
	logger         zerolog.Logger
}

// NewSpecificationHandler constructs the handler.
func NewSpecificationHandler(specifications service.SpecificationService, values service.ProductSpecificationService, logger zerolog.Logger) *SpecificationHandler {
	return &SpecificationHandler{
		specifications: specifications,
		values:         values,
		logger:         logger.With().Str("component", "specification_handler").Logger(),
	}
}

// RegisterPublic wires the active specification listing.
func (h *SpecificationHandler) RegisterPublic(router fiber.Router) {
	router.Get("", func(c *fiber.Ctx) error { return h.list(c, true) })
}

// RegisterAdmin wires catalogue management routes.
func (h *SpecificationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", func(c *fiber.Ctx) error { return h.list(c, false) })
	router.Post("", h.create)
	router.Get("/:slug", h.get)
	router.Put("/:slug", h.update)
	router.Delete("/:slug", middleware.WithAuth(h.delete, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
}

// RegisterVariant expects a group mounted at
// /products/:productId/variants/:variantId/specifications.
func (h *SpecificationHandler) RegisterVariant(router fiber.Router) {
	router.Get("", h.listValues)
	router.Post("", h.attach)
	router.Patch("/:id", h.updateValue)
	router.Delete("/:id", h.detach)
}

func (h *SpecificationHandler) list(c *fiber.Ctx, activeOnly bool) error {
	items, err := h.specifications.List(c.UserContext(), activeOnly)
	if err != nil {
		return h.handleError(c, err, "failed to list specifications")
	}
	return utils.SendSuccess(c, "specifications retrieved", items)
}

func (h *SpecificationHandler) get(c *fiber.Ctx) error {
	item, err := h.specifications.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.handleError(c, err, "failed to load specification")
	}
	return utils.SendSuccess(c, "specification retrieved", item)
}

func (h *SpecificationHandler) create(c *fiber.Ctx) error {
	var payload dto.SpecificationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.specifications.Create(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to create specification")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "specification created", item)
}

func (h *SpecificationHandler) update(c *fiber.Ctx) error {
	var payload dto.SpecificationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.specifications.Update(c.UserContext(), c.Params("slug"), payload)
	if err != nil {
		return h.handleError(c, err, "failed to update specification")
	}
	return utils.SendSuccess(c, "specification updated", item)
}

func (h *SpecificationHandler) delete(c *fiber.Ctx) error {
	if err := h.specifications.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return h.handleError(c, err, "failed to delete specification")
	}
	return utils.SendSuccess(c, "specification deleted", nil)
}

func (h *SpecificationHandler) variantParams(c *fiber.Ctx) (uint, uint, error) {
	productID, err := parseUintParam(c, "productId")
	if err != nil {
		return 0, 0, err
	}
	variantID, err := parseUintParam(c, "variantId")
	if err != nil {
		return 0, 0, err
	}
	return productID, variantID, nil
}

func (h *SpecificationHandler) listValues(c *fiber.Ctx) error {
	productID, variantID, err := h.variantParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, err := h.values.List(c.UserContext(), productID, variantID)
	if err != nil {
		return h.handleError(c, err, "failed to list variant specifications")
	}
	return utils.SendSuccess(c, "variant specifications retrieved", items)
}

func (h *SpecificationHandler) attach(c *fiber.Ctx) error {
	productID, variantID, err := h.variantParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProductSpecificationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.values.Attach(c.UserContext(), productID, variantID, payload)
	if err != nil {
		return h.handleError(c, err, "failed to attach specification")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "specification attached", item)
}

func (h *SpecificationHandler) updateValue(c *fiber.Ctx) error {
	productID, variantID, err := h.variantParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProductSpecificationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.values.Update(c.UserContext(), productID, variantID, id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update variant specification")
	}
	return utils.SendSuccess(c, "variant specification updated", item)
}

func (h *SpecificationHandler) detach(c *fiber.Ctx) error {
	productID, variantID, err := h.variantParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.values.Detach(c.UserContext(), productID, variantID, id); err != nil {
		return h.handleError(c, err, "failed to detach specification")
	}
	return utils.SendSuccess(c, "specification detached", nil)
}

func (h *SpecificationHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrSpecificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "specification not found")
	case errors.Is(err, service.ErrProductSpecificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "variant specification not found")
	case errors.Is(err, service.ErrVariantNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "variant not found")
	case errors.Is(err, service.ErrSpecificationExists), errors.Is(err, service.ErrProductSpecificationExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSpecificationInactive):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, err.Error(), fiber.Map{"specification_slug": "inactive"})
	case errors.Is(err, service.ErrInvalidSpecification):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", fiber.Map{"slug": "required"})
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
