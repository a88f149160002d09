package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// VariantHandler manages the variants nested under a product.
type VariantHandler struct {
	service service.ProductVariantService
	logger  zerolog.Logger
}

// NewVariantHandler constructs the handler.
func NewVariantHandler(service service.ProductVariantService, logger zerolog.Logger) *VariantHandler {
	return &VariantHandler{
		service: service,
		logger:  logger.With().Str("component", "variant_handler").Logger(),
	}
}

// Register expects a group mounted at /products/:productId/variants.
func (h *VariantHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *VariantHandler) list(c *fiber.Ctx) error {
	productID, err := parseUintParam(c, "productId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	variants, err := h.service.List(c.UserContext(), productID)
	if err != nil {
		return h.handleError(c, err, "failed to list variants")
	}
	return utils.SendSuccess(c, "variants retrieved", variants)
}

func (h *VariantHandler) create(c *fiber.Ctx) error {
	productID, err := parseUintParam(c, "productId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.VariantCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	variant, err := h.service.Create(c.UserContext(), productID, payload)
	if err != nil {
		return h.handleError(c, err, "failed to create variant")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "variant created", variant)
}

func (h *VariantHandler) update(c *fiber.Ctx) error {
	productID, err := parseUintParam(c, "productId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.VariantUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	variant, err := h.service.Update(c.UserContext(), productID, id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update variant")
	}
	return utils.SendSuccess(c, "variant updated", variant)
}

func (h *VariantHandler) delete(c *fiber.Ctx) error {
	productID, err := parseUintParam(c, "productId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), productID, id); err != nil {
		return h.handleError(c, err, "failed to delete variant")
	}
	return utils.SendSuccess(c, "variant deleted", nil)
}

func (h *VariantHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrVariantNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "variant not found")
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
