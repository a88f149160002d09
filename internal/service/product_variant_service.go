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

// ErrVariantNotFound indicates the variant does not exist under the product.
var ErrVariantNotFound = errors.New("product variant not found")

// ProductVariantService manages the variants of a product.
type ProductVariantService interface {
	List(ctx context.Context, productID uint) ([]dto.VariantResponse, error)
	Create(ctx context.Context, productID uint, req dto.VariantCreateRequest) (dto.VariantResponse, error)
	Update(ctx context.Context, productID, id uint, req dto.VariantUpdateRequest) (dto.VariantResponse, error)
	Delete(ctx context.Context, productID, id uint) error
}

type productVariantService struct {
	repo      repository.ProductVariantRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProductVariantService constructs the variant service.
func NewProductVariantService(repo repository.ProductVariantRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) ProductVariantService {
	return &productVariantService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		logger:    logger.With().Str("component", "product_variant_service").Logger(),
	}
}

func (s *productVariantService) List(ctx context.Context, productID uint) ([]dto.VariantResponse, error) {
	variants, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VariantResponse, 0, len(variants))
	for _, variant := range variants {
		items = append(items, dto.NewVariantResponse(variant))
	}
	return items, nil
}

func (s *productVariantService) Create(ctx context.Context, productID uint, req dto.VariantCreateRequest) (dto.VariantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.VariantResponse{}, err
	}
	if err := validatePrice(req.Price); err != nil {
		return dto.VariantResponse{}, err
	}

	var created models.ProductVariant
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return mapProductError(err)
		}

		variant := models.ProductVariant{
			ProductID: product.ID,
			Product:   &product,
			SKU:       trimOptional(req.SKU),
			Name:      strings.TrimSpace(req.Name),
			Price:     req.Price,
			Stock:     req.Stock,
			IsActive:  boolValue(req.IsActive, true),
		}
		if err := repos.Variants.Create(ctx, &variant); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &variant, models.ActionCreate, audit.ChangeOptions{
			IncludeRelations: true,
		}); err != nil {
			return err
		}
		created = variant
		return nil
	})
	if err != nil {
		return dto.VariantResponse{}, err
	}
	return dto.NewVariantResponse(created), nil
}

func (s *productVariantService) Update(ctx context.Context, productID, id uint, req dto.VariantUpdateRequest) (dto.VariantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.VariantResponse{}, err
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return dto.VariantResponse{}, err
		}
	}

	var updated models.ProductVariant
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		variant, err := repos.Variants.GetForUpdate(ctx, productID, id)
		if err != nil {
			return mapVariantError(err)
		}
		before := variant

		if req.ProductID != nil && *req.ProductID != variant.ProductID {
			target, err := repos.Products.GetForUpdate(ctx, *req.ProductID)
			if err != nil {
				return mapProductError(err)
			}
			variant.ProductID = target.ID
			variant.Product = &target
		}
		if req.SKU != nil {
			variant.SKU = trimOptional(req.SKU)
		}
		if req.Name != nil {
			variant.Name = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			variant.Price = *req.Price
		}
		if req.Stock != nil {
			variant.Stock = *req.Stock
		}
		if req.IsActive != nil {
			variant.IsActive = *req.IsActive
		}

		if err := repos.Variants.Update(ctx, &variant); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &variant, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = variant
		return nil
	})
	if err != nil {
		return dto.VariantResponse{}, err
	}
	return dto.NewVariantResponse(updated), nil
}

func (s *productVariantService) Delete(ctx context.Context, productID, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		variant, err := repos.Variants.GetForUpdate(ctx, productID, id)
		if err != nil {
			return mapVariantError(err)
		}
		if err := repos.Variants.Delete(ctx, id); err != nil {
			return mapVariantError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &variant, models.ActionDelete, audit.ChangeOptions{
			IncludeRelations: true,
		})
		return err
	})
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapVariantError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVariantNotFound
	}
	return err
}
