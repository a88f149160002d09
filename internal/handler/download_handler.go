package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// DownloadHandler records brochure downloads and hands out the asset URL.
type DownloadHandler struct {
	service service.DownloadService
	logger  zerolog.Logger
}

// NewDownloadHandler constructs the handler.
func NewDownloadHandler(service service.DownloadService, logger zerolog.Logger) *DownloadHandler {
	return &DownloadHandler{
		service: service,
		logger:  logger.With().Str("component", "download_handler").Logger(),
	}
}

// Register wires the download route.
func (h *DownloadHandler) Register(router fiber.Router) {
	router.Post("/:entity/:id", h.download)
}

func (h *DownloadHandler) download(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DownloadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	payload.Entity = c.Params("entity")
	payload.EntityID = id

	response, err := h.service.Download(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrProjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssetUnavailable):
			return utils.SendError(c, fiber.StatusNotFound, "no downloadable asset")
		case isValidationError(err):
			return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record download")
			return utils.SendError(c, fiber.StatusInternalServerError, "download failed")
		}
	}

	return utils.SendSuccess(c, "download ready", response)
}
