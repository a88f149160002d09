package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// ActivityFeedHandler serves the dashboard stream of recent activity.
type ActivityFeedHandler struct {
	service service.ActivityFeedService
	logger  zerolog.Logger
}

// NewActivityFeedHandler constructs the handler instance.
func NewActivityFeedHandler(service service.ActivityFeedService, logger zerolog.Logger) *ActivityFeedHandler {
	return &ActivityFeedHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_feed_handler").Logger(),
	}
}

// Register wires the activity feed routes.
func (h *ActivityFeedHandler) Register(router fiber.Router) {
	router.Get("/recent", h.recent)
}

func (h *ActivityFeedHandler) recent(c *fiber.Ctx) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.ActivityFeedRequest{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		Entity:    c.Query("entity"),
		Action:    c.Query("action"),
		ActorType: c.Query("actor_type"),
	}

	result, err := h.service.ListRecent(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidActivityFilter) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch recent activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch activities")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "recent activities retrieved", result)
}
