package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/company-site-api/internal/models"
)

// SpecificationRepository manages the specification catalogue.
type SpecificationRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Specification, error)
	GetBySlug(ctx context.Context, slug string) (models.Specification, error)
	GetBySlugForUpdate(ctx context.Context, slug string) (models.Specification, error)
	Create(ctx context.Context, specification *models.Specification) error
	Update(ctx context.Context, specification *models.Specification) error
	Delete(ctx context.Context, id uint) error
}

type specificationRepository struct {
	db *gorm.DB
}

// NewSpecificationRepository constructs a specification repository.
func NewSpecificationRepository(db *gorm.DB) SpecificationRepository {
	return &specificationRepository{db: db}
}

func (r *specificationRepository) List(ctx context.Context, activeOnly bool) ([]models.Specification, error) {
	query := r.db.WithContext(ctx).Model(&models.Specification{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.Specification
	err := query.Order("label ASC").Find(&items).Error
	return items, err
}

func (r *specificationRepository) GetBySlug(ctx context.Context, slug string) (models.Specification, error) {
	var specification models.Specification
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&specification).Error
	return specification, err
}

func (r *specificationRepository) GetBySlugForUpdate(ctx context.Context, slug string) (models.Specification, error) {
	var specification models.Specification
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("slug = ?", slug).
		First(&specification).Error
	return specification, err
}

func (r *specificationRepository) Create(ctx context.Context, specification *models.Specification) error {
	return r.db.WithContext(ctx).Create(specification).Error
}

func (r *specificationRepository) Update(ctx context.Context, specification *models.Specification) error {
	return r.db.WithContext(ctx).Save(specification).Error
}

func (r *specificationRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Specification{}, id)
}

// ProductSpecificationRepository manages the specification values of variants.
type ProductSpecificationRepository interface {
	ListByVariant(ctx context.Context, variantID uint) ([]models.ProductSpecification, error)
	GetForUpdate(ctx context.Context, variantID, id uint) (models.ProductSpecification, error)
	Create(ctx context.Context, value *models.ProductSpecification) error
	Update(ctx context.Context, value *models.ProductSpecification) error
	Delete(ctx context.Context, id uint) error
}

type productSpecificationRepository struct {
	db *gorm.DB
}

// NewProductSpecificationRepository constructs a variant specification repository.
func NewProductSpecificationRepository(db *gorm.DB) ProductSpecificationRepository {
	return &productSpecificationRepository{db: db}
}

func (r *productSpecificationRepository) ListByVariant(ctx context.Context, variantID uint) ([]models.ProductSpecification, error) {
	var items []models.ProductSpecification
	err := r.db.WithContext(ctx).
		Preload("Specification").
		Where("variant_id = ?", variantID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *productSpecificationRepository) GetForUpdate(ctx context.Context, variantID, id uint) (models.ProductSpecification, error) {
	var value models.ProductSpecification
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Specification").
		Preload("Variant").
		Where("variant_id = ?", variantID).
		First(&value, id).Error
	return value, err
}

func (r *productSpecificationRepository) Create(ctx context.Context, value *models.ProductSpecification) error {
	return r.db.WithContext(ctx).Omit("Variant", "Specification").Create(value).Error
}

func (r *productSpecificationRepository) Update(ctx context.Context, value *models.ProductSpecification) error {
	return r.db.WithContext(ctx).Omit("Variant", "Specification").Save(value).Error
}

func (r *productSpecificationRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.ProductSpecification{}, id)
}

// deleteByID removes one row and reports gorm.ErrRecordNotFound when none matched.
func deleteByID(db *gorm.DB, model interface{}, id uint) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
