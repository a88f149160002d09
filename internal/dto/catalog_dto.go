package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/company-site-api/internal/models"
)

// ProductCreateRequest captures a new catalogue product.
type ProductCreateRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Slug        string          `json:"slug" validate:"omitempty,max=255"`
	Description string          `json:"description" validate:"omitempty,max=10000"`
	Price       decimal.Decimal `json:"price"`
	Thumbnail   string          `json:"thumbnail" validate:"omitempty,max=512"`
	IsActive    *bool           `json:"is_active"`
}

// ProductUpdateRequest captures partial product updates.
type ProductUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=255"`
	Slug        *string          `json:"slug" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=10000"`
	Price       *decimal.Decimal `json:"price"`
	Thumbnail   *string          `json:"thumbnail" validate:"omitempty,max=512"`
	IsActive    *bool            `json:"is_active"`
}

// ProductListRequest defines filters for product listings.
type ProductListRequest struct {
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ProductResponse represents a catalogue product.
type ProductResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Thumbnail   string            `json:"thumbnail"`
	IsActive    bool              `json:"is_active"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse wraps paginated products.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewProductResponse converts a product model into its DTO.
func NewProductResponse(model models.Product) ProductResponse {
	response := ProductResponse{
		ID:          model.ID,
		Name:        model.Name,
		Slug:        model.Slug,
		Description: model.Description,
		Price:       model.Price,
		Thumbnail:   model.Thumbnail,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	for _, variant := range model.Variants {
		response.Variants = append(response.Variants, NewVariantResponse(variant))
	}
	return response
}

// VariantCreateRequest captures a new product variant.
type VariantCreateRequest struct {
	SKU      *string         `json:"sku" validate:"omitempty,min=1,max=100"`
	Name     string          `json:"name" validate:"required,min=1,max=255"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" validate:"gte=0"`
	IsActive *bool           `json:"is_active"`
}

// VariantUpdateRequest captures partial variant updates.
type VariantUpdateRequest struct {
	ProductID *uint            `json:"product_id" validate:"omitempty,gt=0"`
	SKU       *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name      *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Price     *decimal.Decimal `json:"price"`
	Stock     *int             `json:"stock" validate:"omitempty,gte=0"`
	IsActive  *bool            `json:"is_active"`
}

// VariantResponse represents a product variant.
type VariantResponse struct {
	ID             uint                           `json:"id"`
	ProductID      uint                           `json:"product_id"`
	SKU            *string                        `json:"sku"`
	Name           string                         `json:"name"`
	Price          decimal.Decimal                `json:"price"`
	Stock          int                            `json:"stock"`
	IsActive       bool                           `json:"is_active"`
	Specifications []ProductSpecificationResponse `json:"specifications,omitempty"`
}

// NewVariantResponse converts a variant model into its DTO. Values of
// inactive specifications are left out.
func NewVariantResponse(model models.ProductVariant) VariantResponse {
	response := VariantResponse{
		ID:        model.ID,
		ProductID: model.ProductID,
		SKU:       model.SKU,
		Name:      model.Name,
		Price:     model.Price,
		Stock:     model.Stock,
		IsActive:  model.IsActive,
	}
	for _, value := range model.Specifications {
		if value.Specification != nil && !value.Specification.IsActive {
			continue
		}
		response.Specifications = append(response.Specifications, NewProductSpecificationResponse(value))
	}
	return response
}

// ProjectCreateRequest captures a new showcase project.
type ProjectCreateRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=255"`
	Slug            string   `json:"slug" validate:"omitempty,max=255"`
	Location        string   `json:"location" validate:"omitempty,max=255"`
	Description     string   `json:"description" validate:"omitempty,max=20000"`
	Image           string   `json:"image" validate:"omitempty,max=512"`
	Gallery         []string `json:"gallery" validate:"omitempty,max=50,dive,max=512"`
	MetaTitle       string   `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription string   `json:"meta_description" validate:"omitempty,max=500"`
	IsActive        *bool    `json:"is_active"`
}

// ProjectUpdateRequest captures partial project updates.
type ProjectUpdateRequest struct {
	Title           *string   `json:"title" validate:"omitempty,min=2,max=255"`
	Slug            *string   `json:"slug" validate:"omitempty,min=1,max=255"`
	Location        *string   `json:"location" validate:"omitempty,max=255"`
	Description     *string   `json:"description" validate:"omitempty,max=20000"`
	Image           *string   `json:"image" validate:"omitempty,max=512"`
	Gallery         *[]string `json:"gallery" validate:"omitempty"`
	MetaTitle       *string   `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription *string   `json:"meta_description" validate:"omitempty,max=500"`
	IsActive        *bool     `json:"is_active"`
}

// ProjectListRequest defines filters for project listings.
type ProjectListRequest struct {
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ProjectResponse represents a showcase project.
type ProjectResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Image           string    `json:"image"`
	Gallery         []string  `json:"gallery"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProjectListResponse wraps paginated projects.
type ProjectListResponse struct {
	Items      []ProjectResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewProjectResponse converts a project model into its DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	gallery := []string{}
	if len(model.Gallery) > 0 {
		_ = json.Unmarshal(model.Gallery, &gallery)
	}
	return ProjectResponse{
		ID:              model.ID,
		Title:           model.Title,
		Slug:            model.Slug,
		Location:        model.Location,
		Description:     model.Description,
		Image:           model.Image,
		Gallery:         gallery,
		MetaTitle:       model.MetaTitle,
		MetaDescription: model.MetaDescription,
		IsActive:        model.IsActive,
		CreatedAt:       model.CreatedAt,
	}
}

// SettingUpsertRequest creates or replaces a site setting.
type SettingUpsertRequest struct {
	Value       json.RawMessage `json:"value" validate:"required"`
	Description *string         `json:"description" validate:"omitempty,max=255"`
	IsPublic    *bool           `json:"is_public"`
}

// SettingResponse represents a site setting.
type SettingResponse struct {
	Name        string          `json:"name"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
	IsPublic    bool            `json:"is_public"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewSettingResponse converts a setting model into its DTO.
func NewSettingResponse(model models.Setting) SettingResponse {
	value := json.RawMessage("null")
	if len(model.Value) > 0 {
		value = json.RawMessage(model.Value)
	}
	return SettingResponse{
		Name:        model.Name,
		Value:       value,
		Description: model.Description,
		IsPublic:    model.IsPublic,
		UpdatedAt:   model.UpdatedAt,
	}
}
