package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

// ErrBannerNotFound indicates the banner does not exist.
var ErrBannerNotFound = errors.New("banner not found")

// BannerService manages home page banners.
type BannerService interface {
	List(ctx context.Context, activeOnly bool) ([]dto.BannerResponse, error)
	Create(ctx context.Context, req dto.BannerCreateRequest) (dto.BannerResponse, error)
	Update(ctx context.Context, id uint, req dto.BannerUpdateRequest) (dto.BannerResponse, error)
	Delete(ctx context.Context, id uint) error
}

type bannerService struct {
	repo      repository.BannerRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBannerService constructs the banner service.
func NewBannerService(repo repository.BannerRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) BannerService {
	return &bannerService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "banner_service").Logger(),
	}
}

func (s *bannerService) List(ctx context.Context, activeOnly bool) ([]dto.BannerResponse, error) {
	banners, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BannerResponse, 0, len(banners))
	for _, banner := range banners {
		items = append(items, dto.NewBannerResponse(banner))
	}
	return items, nil
}

func (s *bannerService) Create(ctx context.Context, req dto.BannerCreateRequest) (dto.BannerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BannerResponse{}, err
	}

	banner := models.Banner{
		Title:    strings.TrimSpace(req.Title),
		Subtitle: strings.TrimSpace(req.Subtitle),
		Image:    strings.TrimSpace(req.Image),
		LinkURL:  strings.TrimSpace(req.LinkURL),
		OrderNo:  req.OrderNo,
		IsActive: boolValue(req.IsActive, true),
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Banners.Create(ctx, &banner); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &banner, models.ActionCreate, audit.ChangeOptions{})
		return err
	})
	if err != nil {
		return dto.BannerResponse{}, err
	}
	return dto.NewBannerResponse(banner), nil
}

func (s *bannerService) Update(ctx context.Context, id uint, req dto.BannerUpdateRequest) (dto.BannerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BannerResponse{}, err
	}

	var updated models.Banner
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		banner, err := repos.Banners.GetForUpdate(ctx, id)
		if err != nil {
			return mapBannerError(err)
		}
		before := banner

		if req.Title != nil {
			banner.Title = strings.TrimSpace(*req.Title)
		}
		if req.Subtitle != nil {
			banner.Subtitle = strings.TrimSpace(*req.Subtitle)
		}
		if req.Image != nil {
			banner.Image = strings.TrimSpace(*req.Image)
		}
		if req.LinkURL != nil {
			banner.LinkURL = strings.TrimSpace(*req.LinkURL)
		}
		if req.OrderNo != nil {
			banner.OrderNo = *req.OrderNo
		}
		if req.IsActive != nil {
			banner.IsActive = *req.IsActive
		}

		if err := repos.Banners.Update(ctx, &banner); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &banner, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = banner
		return nil
	})
	if err != nil {
		return dto.BannerResponse{}, err
	}
	return dto.NewBannerResponse(updated), nil
}

func (s *bannerService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		banner, err := repos.Banners.GetForUpdate(ctx, id)
		if err != nil {
			return mapBannerError(err)
		}
		if err := repos.Banners.Delete(ctx, id); err != nil {
			return mapBannerError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &banner, models.ActionDelete, audit.ChangeOptions{})
		return err
	})
}

func mapBannerError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBannerNotFound
	}
	return err
}
