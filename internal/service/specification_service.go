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

var (
	// ErrSpecificationNotFound indicates no specification has the slug.
	ErrSpecificationNotFound = errors.New("specification not found")
	// ErrSpecificationInactive indicates the specification exists but is disabled.
	ErrSpecificationInactive = errors.New("specification is not active")
	// ErrSpecificationExists indicates the slug is already taken.
	ErrSpecificationExists = errors.New("specification slug already exists")
	// ErrInvalidSpecification indicates the label yields no usable slug.
	ErrInvalidSpecification = errors.New("specification slug is empty")
	// ErrProductSpecificationNotFound indicates the value is not attached to the variant.
	ErrProductSpecificationNotFound = errors.New("product specification not found")
	// ErrProductSpecificationExists indicates the variant already carries the specification.
	ErrProductSpecificationExists = errors.New("variant already has this specification")
)

// SpecificationService manages the specification catalogue.
type SpecificationService interface {
	List(ctx context.Context, activeOnly bool) ([]dto.SpecificationResponse, error)
	Get(ctx context.Context, slug string) (dto.SpecificationResponse, error)
	Create(ctx context.Context, req dto.SpecificationCreateRequest) (dto.SpecificationResponse, error)
	Update(ctx context.Context, slug string, req dto.SpecificationUpdateRequest) (dto.SpecificationResponse, error)
	Delete(ctx context.Context, slug string) error
}

type specificationService struct {
	repo      repository.SpecificationRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSpecificationService constructs the specification service.
func NewSpecificationService(repo repository.SpecificationRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) SpecificationService {
	return &specificationService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "specification_service").Logger(),
	}
}

func (s *specificationService) List(ctx context.Context, activeOnly bool) ([]dto.SpecificationResponse, error) {
	specifications, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SpecificationResponse, 0, len(specifications))
	for _, specification := range specifications {
		items = append(items, dto.NewSpecificationResponse(specification))
	}
	return items, nil
}

func (s *specificationService) Get(ctx context.Context, slug string) (dto.SpecificationResponse, error) {
	specification, err := s.repo.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		return dto.SpecificationResponse{}, mapSpecificationError(err)
	}
	return dto.NewSpecificationResponse(specification), nil
}

func (s *specificationService) Create(ctx context.Context, req dto.SpecificationCreateRequest) (dto.SpecificationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SpecificationResponse{}, err
	}

	specification := models.Specification{
		Slug:     normalizeSlug(req.Slug),
		Label:    strings.TrimSpace(req.Label),
		Icon:     strings.TrimSpace(req.Icon),
		IsActive: boolValue(req.IsActive, true),
	}
	if specification.Slug == "" {
		specification.Slug = normalizeSlug(specification.Label)
	}
	if specification.Slug == "" {
		return dto.SpecificationResponse{}, ErrInvalidSpecification
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Specifications.GetBySlug(ctx, specification.Slug); err == nil {
			return ErrSpecificationExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repos.Specifications.Create(ctx, &specification); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &specification, models.ActionCreate, audit.ChangeOptions{})
		return err
	})
	if err != nil {
		return dto.SpecificationResponse{}, err
	}

	s.logger.Info().Uint("specification_id", specification.ID).Str("slug", specification.Slug).Msg("specification created")
	return dto.NewSpecificationResponse(specification), nil
}

func (s *specificationService) Update(ctx context.Context, slug string, req dto.SpecificationUpdateRequest) (dto.SpecificationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SpecificationResponse{}, err
	}

	var updated models.Specification
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		specification, err := repos.Specifications.GetBySlugForUpdate(ctx, normalizeSlug(slug))
		if err != nil {
			return mapSpecificationError(err)
		}
		before := specification

		if req.Label != nil {
			specification.Label = strings.TrimSpace(*req.Label)
		}
		if req.Icon != nil {
			specification.Icon = strings.TrimSpace(*req.Icon)
		}
		if req.IsActive != nil {
			specification.IsActive = *req.IsActive
		}

		if err := repos.Specifications.Update(ctx, &specification); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &specification, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = specification
		return nil
	})
	if err != nil {
		return dto.SpecificationResponse{}, err
	}
	return dto.NewSpecificationResponse(updated), nil
}

func (s *specificationService) Delete(ctx context.Context, slug string) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		specification, err := repos.Specifications.GetBySlugForUpdate(ctx, normalizeSlug(slug))
		if err != nil {
			return mapSpecificationError(err)
		}
		if err := repos.Specifications.Delete(ctx, specification.ID); err != nil {
			return mapSpecificationError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &specification, models.ActionDelete, audit.ChangeOptions{})
		return err
	})
}

// ProductSpecificationService manages the specification values of a variant.
type ProductSpecificationService interface {
	List(ctx context.Context, productID, variantID uint) ([]dto.ProductSpecificationResponse, error)
	Attach(ctx context.Context, productID, variantID uint, req dto.ProductSpecificationRequest) (dto.ProductSpecificationResponse, error)
	Update(ctx context.Context, productID, variantID, id uint, req dto.ProductSpecificationUpdateRequest) (dto.ProductSpecificationResponse, error)
	Detach(ctx context.Context, productID, variantID, id uint) error
}

type productSpecificationService struct {
	variants  repository.ProductVariantRepository
	values    repository.ProductSpecificationRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProductSpecificationService constructs the variant specification service.
func NewProductSpecificationService(variants repository.ProductVariantRepository, values repository.ProductSpecificationRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) ProductSpecificationService {
	return &productSpecificationService{
		variants:  variants,
		values:    values,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "product_specification_service").Logger(),
	}
}

func (s *productSpecificationService) List(ctx context.Context, productID, variantID uint) ([]dto.ProductSpecificationResponse, error) {
	if _, err := s.variants.Get(ctx, productID, variantID); err != nil {
		return nil, mapVariantError(err)
	}
	values, err := s.values.ListByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductSpecificationResponse, 0, len(values))
	for _, value := range values {
		items = append(items, dto.NewProductSpecificationResponse(value))
	}
	return items, nil
}

func (s *productSpecificationService) Attach(ctx context.Context, productID, variantID uint, req dto.ProductSpecificationRequest) (dto.ProductSpecificationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProductSpecificationResponse{}, err
	}

	var created models.ProductSpecification
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		variant, err := repos.Variants.GetForUpdate(ctx, productID, variantID)
		if err != nil {
			return mapVariantError(err)
		}
		specification, err := activeSpecification(ctx, repos.Specifications, req.SpecificationSlug)
		if err != nil {
			return err
		}

		existing, err := repos.ProductSpecifications.ListByVariant(ctx, variant.ID)
		if err != nil {
			return err
		}
		for _, value := range existing {
			if value.SpecificationID == specification.ID {
				return ErrProductSpecificationExists
			}
		}

		value := models.ProductSpecification{
			VariantID:       variant.ID,
			Variant:         &variant,
			SpecificationID: specification.ID,
			Specification:   &specification,
			Value:           strings.TrimSpace(req.Value),
		}
		if err := repos.ProductSpecifications.Create(ctx, &value); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &value, models.ActionCreate, audit.ChangeOptions{
			IncludeRelations: true,
		}); err != nil {
			return err
		}
		created = value
		return nil
	})
	if err != nil {
		return dto.ProductSpecificationResponse{}, err
	}
	return dto.NewProductSpecificationResponse(created), nil
}

func (s *productSpecificationService) Update(ctx context.Context, productID, variantID, id uint, req dto.ProductSpecificationUpdateRequest) (dto.ProductSpecificationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProductSpecificationResponse{}, err
	}

	var updated models.ProductSpecification
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Variants.GetForUpdate(ctx, productID, variantID); err != nil {
			return mapVariantError(err)
		}
		value, err := repos.ProductSpecifications.GetForUpdate(ctx, variantID, id)
		if err != nil {
			return mapProductSpecificationError(err)
		}
		before := value

		value.Value = strings.TrimSpace(req.Value)
		if err := repos.ProductSpecifications.Update(ctx, &value); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &value, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = value
		return nil
	})
	if err != nil {
		return dto.ProductSpecificationResponse{}, err
	}
	return dto.NewProductSpecificationResponse(updated), nil
}

func (s *productSpecificationService) Detach(ctx context.Context, productID, variantID, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Variants.GetForUpdate(ctx, productID, variantID); err != nil {
			return mapVariantError(err)
		}
		value, err := repos.ProductSpecifications.GetForUpdate(ctx, variantID, id)
		if err != nil {
			return mapProductSpecificationError(err)
		}
		if err := repos.ProductSpecifications.Delete(ctx, id); err != nil {
			return mapProductSpecificationError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &value, models.ActionDelete, audit.ChangeOptions{
			IncludeRelations: true,
		})
		return err
	})
}

// activeSpecification resolves a slug and rejects disabled specifications.
func activeSpecification(ctx context.Context, repo repository.SpecificationRepository, slug string) (models.Specification, error) {
	specification, err := repo.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		return models.Specification{}, mapSpecificationError(err)
	}
	if !specification.IsActive {
		return models.Specification{}, ErrSpecificationInactive
	}
	return specification, nil
}

func mapSpecificationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSpecificationNotFound
	}
	return err
}

func mapProductSpecificationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductSpecificationNotFound
	}
	return err
}
