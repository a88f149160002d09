package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrInvalidSetting indicates a malformed setting name or value.
var ErrInvalidSetting = errors.New("invalid setting")

// SettingService manages keyed site settings.
type SettingService interface {
	ListPublic(ctx context.Context) ([]dto.SettingResponse, error)
	Upsert(ctx context.Context, name string, req dto.SettingUpsertRequest) (dto.SettingResponse, error)
}

type settingService struct {
	repo      repository.SettingRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSettingService constructs the setting service.
func NewSettingService(repo repository.SettingRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) SettingService {
	return &settingService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "setting_service").Logger(),
	}
}

func (s *settingService) ListPublic(ctx context.Context) ([]dto.SettingResponse, error) {
	settings, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for _, setting := range settings {
		items = append(items, dto.NewSettingResponse(setting))
	}
	return items, nil
}

// Upsert creates the setting on first write and records a diff on later
// writes.
func (s *settingService) Upsert(ctx context.Context, name string, req dto.SettingUpsertRequest) (dto.SettingResponse, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || len(name) > 128 {
		return dto.SettingResponse{}, fmt.Errorf("%w: name must be 1-128 characters", ErrInvalidSetting)
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.SettingResponse{}, err
	}
	if !json.Valid(req.Value) {
		return dto.SettingResponse{}, fmt.Errorf("%w: value must be valid JSON", ErrInvalidSetting)
	}

	var saved models.Setting
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		activity := s.audit.WithStore(repos.ActivityLogs)

		setting, err := repos.Settings.GetByNameForUpdate(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.Setting{
				Name:     name,
				Value:    datatypes.JSON(req.Value),
				IsPublic: boolValue(req.IsPublic, false),
			}
			if req.Description != nil {
				setting.Description = strings.TrimSpace(*req.Description)
			}
			if err := repos.Settings.Create(ctx, &setting); err != nil {
				return err
			}
			saved = setting
			_, err = activity.LogEntityChange(ctx, &setting, models.ActionCreate, audit.ChangeOptions{})
			return err
		}
		if err != nil {
			return err
		}

		before := setting
		setting.Value = datatypes.JSON(req.Value)
		if req.Description != nil {
			setting.Description = strings.TrimSpace(*req.Description)
		}
		if req.IsPublic != nil {
			setting.IsPublic = *req.IsPublic
		}
		if err := repos.Settings.Update(ctx, &setting); err != nil {
			return err
		}
		saved = setting
		_, err = activity.LogEntityChange(ctx, &setting, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		})
		return err
	})
	if err != nil {
		return dto.SettingResponse{}, err
	}
	return dto.NewSettingResponse(saved), nil
}
