package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// HeaderContactReference carries the reference id of an accepted submission.
const HeaderContactReference = "X-Contact-Reference"

// ContactHandler accepts contact form submissions from site visitors.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes. The site posts either JSON or a plain
// urlencoded form.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var payload dto.ContactRequest
	if err := c.BodyParser(&payload); err != nil {
		if errors.Is(err, fiber.ErrUnprocessableEntity) {
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "unsupported content type")
		}
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Submit(c.UserContext(), payload)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrContactSpam):
		// Bots get the same answer as a malformed body.
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrContactDuplicate):
		return utils.SendError(c, fiber.StatusTooManyRequests, "duplicate submission")
	case isValidationError(err):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record contact submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit contact form")
	}

	c.Set(HeaderContactReference, response.ReferenceID)
	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "contact submission accepted", response)
}
