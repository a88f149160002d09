package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

const (
	analyticsWindowDays = 56
	topEntityLimit      = 5
)

// AdminAnalyticsService aggregates the audit trail for the admin dashboard.
type AdminAnalyticsService interface {
	GetSummary(ctx context.Context) (dto.AdminAnalyticsResponse, error)
}

type adminAnalyticsService struct {
	repo     repository.AdminAnalyticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAdminAnalyticsService constructs the analytics service.
func NewAdminAnalyticsService(repo repository.AdminAnalyticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AdminAnalyticsService {
	return &adminAnalyticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "admin_analytics_service").Logger(),
		now:      time.Now,
	}
}

func (s *adminAnalyticsService) GetSummary(ctx context.Context) (dto.AdminAnalyticsResponse, error) {
	const cacheKey = "analytics:activity:v1"
	tracer := otel.Tracer("github.com/noah-isme/company-site-api/internal/service/admin_analytics")
	ctx, span := tracer.Start(ctx, "analytics.aggregate")
	span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AdminAnalyticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}

	activeUsers, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_active_users_failed")
		return dto.AdminAnalyticsResponse{}, err
	}

	since := s.now().AddDate(0, 0, -analyticsWindowDays)
	entries, err := s.repo.ListActivitySince(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_activity_failed")
		return dto.AdminAnalyticsResponse{}, err
	}

	summary := s.buildSummary(activeUsers, entries)
	span.SetAttributes(
		attribute.Int64("analytics.active_users", activeUsers),
		attribute.Int("analytics.activity_count", len(entries)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
				span.RecordError(err)
			}
		}
	}

	return summary, nil
}

func (s *adminAnalyticsService) buildSummary(activeUsers int64, entries []models.ActivityLog) dto.AdminAnalyticsResponse {
	byAction := dto.ActionCountResponse{}
	for _, action := range models.KnownActions() {
		byAction[string(action)] = 0
	}
	byActor := dto.ActionCountResponse{
		string(models.ActorUser):  0,
		string(models.ActorGuest): 0,
	}
	entities := map[string]int64{}
	weekly := map[time.Time]*dto.WeeklyActivityPoint{}
	var bulk int64

	for _, entry := range entries {
		byAction[string(entry.Action)]++
		byActor[string(entry.ActorType)]++
		entities[entry.Entity]++
		if flag, ok := entry.ExtraData["bulk_operation"].(bool); ok && flag {
			bulk++
		}

		week := startOfWeek(entry.CreatedAt)
		point, ok := weekly[week]
		if !ok {
			point = &dto.WeeklyActivityPoint{WeekStart: week}
			weekly[week] = point
		}
		point.Total++
		if entry.ActorType == models.ActorGuest {
			point.Guests++
		}
	}

	top := make([]dto.EntityCountPoint, 0, len(entities))
	for entity, count := range entities {
		top = append(top, dto.EntityCountPoint{Entity: entity, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count == top[j].Count {
			return top[i].Entity < top[j].Entity
		}
		return top[i].Count > top[j].Count
	})
	if len(top) > topEntityLimit {
		top = top[:topEntityLimit]
	}

	weeks := make([]time.Time, 0, len(weekly))
	for week := range weekly {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	activity := make([]dto.WeeklyActivityPoint, 0, len(weeks))
	for _, week := range weeks {
		activity = append(activity, *weekly[week])
	}

	return dto.AdminAnalyticsResponse{
		ActiveUsers:     activeUsers,
		TotalActivities: int64(len(entries)),
		ByAction:        byAction,
		ByActorType:     byActor,
		TopEntities:     top,
		BulkOperations:  bulk,
		WeeklyActivity:  activity,
		GeneratedAt:     s.now(),
		CacheHit:        false,
	}
}

func startOfWeek(t time.Time) time.Time {
	utc := t.UTC()
	weekday := int(utc.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := utc.AddDate(0, 0, -(weekday - 1))
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
