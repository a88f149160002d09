package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/observability"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ActivityFeedService exposes the dashboard stream of recent activity.
type ActivityFeedService interface {
	ListRecent(ctx context.Context, req dto.ActivityFeedRequest) (dto.ActivityFeedResponse, error)
}

type activityFeedService struct {
	repo   repository.ActivityLogRepository
	cache  *redis.Client
	ttl    time.Duration
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewActivityFeedService builds the activity feed service.
func NewActivityFeedService(repo repository.ActivityLogRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ActivityFeedService {
	if ttl <= 0 {
		ttl = 45 * time.Second
	}
	return &activityFeedService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		window: 24 * time.Hour,
		now:    time.Now,
		logger: logger.With().Str("component", "activity_feed_service").Logger(),
	}
}

func (s *activityFeedService) ListRecent(ctx context.Context, req dto.ActivityFeedRequest) (dto.ActivityFeedResponse, error) {
	start := time.Now()
	defer func() {
		observability.ActivityFeedLatency().Observe(time.Since(start).Seconds())
	}()

	query, err := buildQueryFilter(req.Entity, req.Action, req.ActorType)
	if err != nil {
		observability.ActivityFeedRequests().WithLabelValues("invalid").Inc()
		return dto.ActivityFeedResponse{}, err
	}

	// Truncate so requests within the same minute share a cache entry.
	now := s.now().Truncate(time.Minute)
	query.Since = now.Add(-s.window)
	query.Until = now.Add(time.Minute)
	query.UserID = req.UserID

	filter := repository.ActivityLogFilter{
		QueryFilter: query,
		Page:        normalizePage(req.Page),
		PageSize:    clampPageSize(req.PageSize),
	}

	cacheKey := s.cacheKey(filter)
	if cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.ActivityFeedResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.ActivityFeedRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	entries, total, err := s.repo.ListRecent(ctx, filter)
	if err != nil {
		observability.ActivityFeedRequests().WithLabelValues("error").Inc()
		return dto.ActivityFeedResponse{}, err
	}

	items := make([]dto.ActivityFeedItem, 0, len(entries))
	for _, entry := range entries {
		item := dto.ActivityFeedItem{
			ID:          entry.ID,
			Action:      string(entry.Action),
			Entity:      entry.Entity,
			EntityID:    entry.EntityID,
			EntityName:  entry.EntityName,
			Description: entry.Description,
			ActorType:   string(entry.ActorType),
			ActorName:   entry.ActorName,
			CreatedAt:   entry.CreatedAt,
		}
		if entry.User != nil {
			item.Username = entry.User.Username
		}
		items = append(items, item)
	}

	response := dto.ActivityFeedResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write activity feed cache")
			}
		}
	}

	observability.ActivityFeedRequests().WithLabelValues("miss").Inc()

	return response, nil
}

func (s *activityFeedService) cacheKey(filter repository.ActivityLogFilter) string {
	if s.cache == nil {
		return ""
	}
	userKey := "0"
	if filter.UserID != nil {
		userKey = fmt.Sprintf("%d", *filter.UserID)
	}
	return fmt.Sprintf("activities:recent:v1:%s:%s|%s|%s:%d:%d:%d",
		userKey, filter.Action, filter.Entity, filter.ActorType, filter.Page, filter.PageSize, filter.Since.Unix())
}
