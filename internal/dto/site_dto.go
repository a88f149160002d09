package dto

import (
	"time"

	"github.com/noah-isme/company-site-api/internal/models"
)

// SpecificationCreateRequest captures a new catalogue specification.
type SpecificationCreateRequest struct {
	Slug     string `json:"slug" validate:"omitempty,max=255"`
	Label    string `json:"label" validate:"required,min=1,max=255"`
	Icon     string `json:"icon" validate:"omitempty,max=512"`
	IsActive *bool  `json:"is_active"`
}

// SpecificationUpdateRequest captures partial specification updates.
type SpecificationUpdateRequest struct {
	Label    *string `json:"label" validate:"omitempty,min=1,max=255"`
	Icon     *string `json:"icon" validate:"omitempty,max=512"`
	IsActive *bool   `json:"is_active"`
}

// SpecificationResponse represents a catalogue specification.
type SpecificationResponse struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	IsActive bool   `json:"is_active"`
}

// NewSpecificationResponse converts a specification model into its DTO.
func NewSpecificationResponse(model models.Specification) SpecificationResponse {
	return SpecificationResponse{
		ID:       model.ID,
		Slug:     model.Slug,
		Label:    model.Label,
		Icon:     model.Icon,
		IsActive: model.IsActive,
	}
}

// ProductSpecificationRequest attaches a specification value to a variant.
type ProductSpecificationRequest struct {
	SpecificationSlug string `json:"specification_slug" validate:"required,max=255"`
	Value             string `json:"value" validate:"required,max=255"`
}

// ProductSpecificationUpdateRequest changes the value of an attached specification.
type ProductSpecificationUpdateRequest struct {
	Value string `json:"value" validate:"required,max=255"`
}

// ProductSpecificationResponse is a specification value of a variant.
type ProductSpecificationResponse struct {
	ID            uint                   `json:"id"`
	VariantID     uint                   `json:"variant_id"`
	Specification *SpecificationResponse `json:"specification,omitempty"`
	Value         string                 `json:"value"`
}

// NewProductSpecificationResponse converts a variant specification value into its DTO.
func NewProductSpecificationResponse(model models.ProductSpecification) ProductSpecificationResponse {
	response := ProductSpecificationResponse{
		ID:        model.ID,
		VariantID: model.VariantID,
		Value:     model.Value,
	}
	if model.Specification != nil {
		specification := NewSpecificationResponse(*model.Specification)
		response.Specification = &specification
	}
	return response
}

// BannerCreateRequest captures a new home page banner.
type BannerCreateRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Subtitle string `json:"subtitle" validate:"omitempty,max=255"`
	Image    string `json:"image" validate:"required,max=512"`
	LinkURL  string `json:"link_url" validate:"omitempty,max=512"`
	OrderNo  int    `json:"order_no" validate:"gte=0"`
	IsActive *bool  `json:"is_active"`
}

// BannerUpdateRequest captures partial banner updates.
type BannerUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	Subtitle *string `json:"subtitle" validate:"omitempty,max=255"`
	Image    *string `json:"image" validate:"omitempty,min=1,max=512"`
	LinkURL  *string `json:"link_url" validate:"omitempty,max=512"`
	OrderNo  *int    `json:"order_no" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active"`
}

// BannerResponse represents a home page banner.
type BannerResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Image     string    `json:"image"`
	LinkURL   string    `json:"link_url"`
	OrderNo   int       `json:"order_no"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBannerResponse converts a banner model into its DTO.
func NewBannerResponse(model models.Banner) BannerResponse {
	return BannerResponse{
		ID:        model.ID,
		Title:     model.Title,
		Subtitle:  model.Subtitle,
		Image:     model.Image,
		LinkURL:   model.LinkURL,
		OrderNo:   model.OrderNo,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
	}
}

// MenuCreateRequest captures a new navigation menu.
type MenuCreateRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Position string `json:"position" validate:"omitempty,oneof=header footer sidebar"`
}

// MenuUpdateRequest captures partial menu updates.
type MenuUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Position *string `json:"position" validate:"omitempty,oneof=header footer sidebar"`
}

// MenuItemRequest captures a new menu link.
type MenuItemRequest struct {
	ParentID *uint  `json:"parent_id" validate:"omitempty,gt=0"`
	Lang     string `json:"lang" validate:"omitempty,max=10"`
	Label    string `json:"label" validate:"required,min=1,max=255"`
	Link     string `json:"link" validate:"required,max=255"`
	OrderNo  int    `json:"order_no" validate:"gte=0"`
}

// MenuItemUpdateRequest captures partial menu link updates.
type MenuItemUpdateRequest struct {
	ParentID *uint   `json:"parent_id" validate:"omitempty,gt=0"`
	Lang     *string `json:"lang" validate:"omitempty,min=1,max=10"`
	Label    *string `json:"label" validate:"omitempty,min=1,max=255"`
	Link     *string `json:"link" validate:"omitempty,min=1,max=255"`
	OrderNo  *int    `json:"order_no" validate:"omitempty,gte=0"`
}

// MenuItemResponse represents one menu link.
type MenuItemResponse struct {
	ID       uint   `json:"id"`
	MenuID   uint   `json:"menu_id"`
	ParentID *uint  `json:"parent_id"`
	Lang     string `json:"lang"`
	Label    string `json:"label"`
	Link     string `json:"link"`
	OrderNo  int    `json:"order_no"`
}

// NewMenuItemResponse converts a menu item model into its DTO.
func NewMenuItemResponse(model models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       model.ID,
		MenuID:   model.MenuID,
		ParentID: model.ParentID,
		Lang:     model.Lang,
		Label:    model.Label,
		Link:     model.Link,
		OrderNo:  model.OrderNo,
	}
}

// MenuResponse represents a navigation menu with its links.
type MenuResponse struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	Position string             `json:"position"`
	Items    []MenuItemResponse `json:"items"`
}

// NewMenuResponse converts a menu model into its DTO.
func NewMenuResponse(model models.Menu) MenuResponse {
	items := make([]MenuItemResponse, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, NewMenuItemResponse(item))
	}
	return MenuResponse{
		ID:       model.ID,
		Name:     model.Name,
		Position: string(model.Position),
		Items:    items,
	}
}
