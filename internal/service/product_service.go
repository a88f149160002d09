package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/dto"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
)

var (
	// ErrProductNotFound indicates the product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
)

// ProductService manages the product catalogue.
type ProductService interface {
	List(ctx context.Context, req dto.ProductListRequest) (dto.ProductListResponse, error)
	Get(ctx context.Context, id uint) (dto.ProductResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.ProductResponse, error)
	Create(ctx context.Context, req dto.ProductCreateRequest) (dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req dto.ProductUpdateRequest) (dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, req dto.BulkActiveRequest) (dto.BulkResultResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	uow       repository.UnitOfWork
	audit     *audit.Logger
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProductService constructs the catalogue service.
func NewProductService(repo repository.ProductRepository, uow repository.UnitOfWork, auditLogger *audit.Logger, validator *validator.Validate, logger zerolog.Logger) ProductService {
	return &productService{
		repo:      repo,
		uow:       uow,
		audit:     auditLogger,
		validator: validator,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "product_service").Logger(),
	}
}

func (s *productService) List(ctx context.Context, req dto.ProductListRequest) (dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		Search:     strings.TrimSpace(req.Search),
		ActiveOnly: req.ActiveOnly,
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ProductListResponse{}, err
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, dto.NewProductResponse(product))
	}
	return dto.ProductListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *productService) Get(ctx context.Context, id uint) (dto.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, mapProductError(err)
	}
	return dto.NewProductResponse(product), nil
}

// GetBySlug serves the public product page. Views are recorded on a best
// effort basis and never fail the request.
func (s *productService) GetBySlug(ctx context.Context, slug string) (dto.ProductResponse, error) {
	product, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return dto.ProductResponse{}, mapProductError(err)
	}
	if _, err := s.audit.LogEntityChange(ctx, &product, models.ActionView, audit.ChangeOptions{
		ExtraData: map[string]any{"slug": product.Slug},
	}); err != nil {
		s.logger.Warn().Err(err).Uint("product_id", product.ID).Msg("failed to record product view")
	}
	return dto.NewProductResponse(product), nil
}

func (s *productService) Create(ctx context.Context, req dto.ProductCreateRequest) (dto.ProductResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProductResponse{}, err
	}
	if err := validatePrice(req.Price); err != nil {
		return dto.ProductResponse{}, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        normalizeSlug(req.Slug),
		Description: s.sanitizer.Sanitize(req.Description),
		Price:       req.Price,
		Thumbnail:   strings.TrimSpace(req.Thumbnail),
		IsActive:    boolValue(req.IsActive, true),
	}
	if product.Slug == "" {
		product.Slug = generateSlug(product.Name, "product")
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, &product); err != nil {
			return err
		}
		_, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &product, models.ActionCreate, audit.ChangeOptions{})
		return err
	})
	if err != nil {
		return dto.ProductResponse{}, err
	}

	s.logger.Info().Uint("product_id", product.ID).Str("slug", product.Slug).Msg("product created")
	return dto.NewProductResponse(product), nil
}

func (s *productService) Update(ctx context.Context, id uint, req dto.ProductUpdateRequest) (dto.ProductResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProductResponse{}, err
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return dto.ProductResponse{}, err
		}
	}

	var updated models.Product
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return mapProductError(err)
		}
		before := product

		if req.Name != nil {
			product.Name = strings.TrimSpace(*req.Name)
		}
		if req.Slug != nil {
			if slug := normalizeSlug(*req.Slug); slug != "" {
				product.Slug = slug
			}
		}
		if req.Description != nil {
			product.Description = s.sanitizer.Sanitize(*req.Description)
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.Thumbnail != nil {
			product.Thumbnail = strings.TrimSpace(*req.Thumbnail)
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if err := repos.Products.Update(ctx, &product); err != nil {
			return err
		}
		if _, err := s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &product, models.ActionUpdate, audit.ChangeOptions{
			OldInstance:   &before,
			ExcludeFields: []string{"updated_at"},
		}); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return dto.NewProductResponse(updated), nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	return s.uow.Do(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return mapProductError(err)
		}
		if err := repos.Products.Delete(ctx, id); err != nil {
			return mapProductError(err)
		}
		_, err = s.audit.WithStore(repos.ActivityLogs).LogEntityChange(ctx, &product, models.ActionDelete, audit.ChangeOptions{})
		return err
	})
}

// SetActive publishes or hides several products at once and records a
// single bulk activity entry.
func (s *productService) SetActive(ctx context.Context, req dto.BulkActiveRequest) (dto.BulkResultResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BulkResultResponse{}, err
	}
	active := *req.IsActive
	operation := "deactivate_products"
	if active {
		operation = "activate_products"
	}

	result := dto.BulkResultResponse{Succeeded: []uint{}, Failed: []uint{}}
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		products, err := repos.Products.ListByIDs(ctx, req.IDs)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return ErrProductNotFound
		}

		found := make(map[uint]bool, len(products))
		changed := make([]models.Auditable, 0, len(products))
		for i := range products {
			product := &products[i]
			found[product.ID] = true
			product.IsActive = active
			if err := repos.Products.Update(ctx, product); err != nil {
				return err
			}
			result.Succeeded = append(result.Succeeded, product.ID)
			changed = append(changed, product)
		}
		for _, id := range req.IDs {
			if !found[id] {
				result.Failed = append(result.Failed, id)
			}
		}

		_, err = s.audit.WithStore(repos.ActivityLogs).LogBulkOperation(ctx, models.ActionUpdate, changed, audit.BulkOptions{
			OperationName: operation,
			SuccessCount:  len(result.Succeeded),
			ErrorCount:    len(result.Failed),
			ExtraData:     map[string]any{"is_active": active},
		})
		return err
	})
	if err != nil {
		return dto.BulkResultResponse{}, err
	}
	return result, nil
}

func mapProductError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, price.String())
	}
	return nil
}
