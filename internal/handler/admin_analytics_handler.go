package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/service"
	"github.com/noah-isme/company-site-api/internal/utils"
)

// AdminAnalyticsHandler exposes audit trail statistics for administrators.
type AdminAnalyticsHandler struct {
	service service.AdminAnalyticsService
	logger  zerolog.Logger
}

// NewAdminAnalyticsHandler constructs the handler.
func NewAdminAnalyticsHandler(service service.AdminAnalyticsService, logger zerolog.Logger) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_analytics_handler").Logger(),
	}
}

// Register attaches analytics routes to the router group. Mount it behind
// an admin role guard.
func (h *AdminAnalyticsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *AdminAnalyticsHandler) get(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to aggregate activity analytics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load analytics")
	}

	// The summary includes guest identifiers; keep it out of shared caches.
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	c.Set("X-Cache-Hit", strconv.FormatBool(summary.CacheHit))
	requestLogger(h.logger, c).Debug().
		Int64("total_activities", summary.TotalActivities).
		Bool("cache_hit", summary.CacheHit).
		Msg("analytics summary served")

	return utils.SendSuccess(c, "activity analytics", summary)
}
