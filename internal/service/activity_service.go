package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrInvalidActivityFilter indicates an unknown action or actor type filter.
var ErrInvalidActivityFilter = errors.New("invalid activity filter")

const historyLimit = 100

// ActivityService exposes read access to the audit trail.
type ActivityService interface {
	List(ctx context.Context, req dto.AdminActivityListRequest) (dto.AdminActivityListResponse, error)
	History(ctx context.Context, entity string, entityID uint) ([]dto.AdminActivityResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) List(ctx context.Context, req dto.AdminActivityListRequest) (dto.AdminActivityListResponse, error) {
	query, err := buildQueryFilter(req.Entity, req.Action, req.ActorType)
	if err != nil {
		return dto.AdminActivityListResponse{}, err
	}
	query.EntityID = req.EntityID
	query.UserID = req.UserID
	query.ActorIdentifier = strings.TrimSpace(req.ActorIdentifier)
	query.Since = req.Since
	query.Until = req.Until

	filter := repository.ActivityLogFilter{
		QueryFilter: query,
		Page:        normalizePage(req.Page),
		PageSize:    clampPageSize(req.PageSize),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list activity logs")
		return dto.AdminActivityListResponse{}, err
	}

	responses := make([]dto.AdminActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAdminActivityResponse(entry))
	}

	return dto.AdminActivityListResponse{
		Items:      responses,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *activityService) History(ctx context.Context, entity string, entityID uint) ([]dto.AdminActivityResponse, error) {
	entity = strings.ToLower(strings.TrimSpace(entity))
	if entity == "" || entityID == 0 {
		return nil, fmt.Errorf("%w: entity and id are required", ErrInvalidActivityFilter)
	}

	entries, err := s.repo.Query(ctx, audit.QueryFilter{
		Entity:   entity,
		EntityID: &entityID,
		Limit:    historyLimit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAdminActivityResponse(entry))
	}
	return responses, nil
}

func buildQueryFilter(entity, action, actorType string) (audit.QueryFilter, error) {
	filter := audit.QueryFilter{Entity: strings.ToLower(strings.TrimSpace(entity))}

	if trimmed := strings.TrimSpace(action); trimmed != "" {
		parsed, ok := models.ParseAction(trimmed)
		if !ok {
			return audit.QueryFilter{}, fmt.Errorf("%w: unknown action %q", ErrInvalidActivityFilter, trimmed)
		}
		filter.Action = parsed
	}

	switch models.ActorType(strings.ToLower(strings.TrimSpace(actorType))) {
	case "":
	case models.ActorUser:
		filter.ActorType = models.ActorUser
	case models.ActorGuest:
		filter.ActorType = models.ActorGuest
	default:
		return audit.QueryFilter{}, fmt.Errorf("%w: unknown actor type %q", ErrInvalidActivityFilter, actorType)
	}

	return filter, nil
}
