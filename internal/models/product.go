package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue item published on the public site.
type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Slug        string           `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Thumbnail   string           `gorm:"size:512" json:"thumbnail"`
	IsActive    bool             `gorm:"not null;index" json:"is_active"`
	Variants    []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

var productSchema = NewSchema("product", "models.Product",
	FieldSpec[*Product]{Name: "id", Kind: KindUint, Get: func(p *Product) any { return p.ID }},
	FieldSpec[*Product]{Name: "name", Kind: KindString, Get: func(p *Product) any { return p.Name }},
	FieldSpec[*Product]{Name: "slug", Kind: KindString, Get: func(p *Product) any { return p.Slug }},
	FieldSpec[*Product]{Name: "description", Kind: KindString, Get: func(p *Product) any { return p.Description }},
	FieldSpec[*Product]{Name: "price", Kind: KindDecimal, Get: func(p *Product) any { return p.Price }},
	FieldSpec[*Product]{Name: "thumbnail", Kind: KindFile, Get: func(p *Product) any { return p.Thumbnail }},
	FieldSpec[*Product]{Name: "is_active", Kind: KindBool, Get: func(p *Product) any { return p.IsActive }},
	FieldSpec[*Product]{Name: "created_at", Kind: KindTime, Get: func(p *Product) any { return p.CreatedAt }},
	FieldSpec[*Product]{Name: "updated_at", Kind: KindTime, Get: func(p *Product) any { return p.UpdatedAt }},
)

func (p *Product) AuditID() (uint, bool) {
	return optionalID(p.ID)
}

func (p *Product) EntityName() string {
	return productSchema.Entity()
}

func (p *Product) QualifiedType() string {
	return productSchema.Qualified()
}

func (p *Product) DisplayString() string {
	return fmt.Sprintf("%d: %s", p.ID, p.Name)
}

func (p *Product) AuditFields() []Field {
	return productSchema.Fields(p)
}

// ProductVariant is a purchasable configuration of a product.
type ProductVariant struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	ProductID      uint                   `gorm:"not null;index" json:"product_id"`
	Product        *Product               `json:"-"`
	SKU            *string                `gorm:"size:100;uniqueIndex" json:"sku"`
	Name           string                 `gorm:"size:255;not null" json:"name"`
	Price          decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Stock          int                    `gorm:"not null;default:0" json:"stock"`
	IsActive       bool                   `gorm:"not null" json:"is_active"`
	Specifications []ProductSpecification `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"specifications,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

var productVariantSchema = NewSchema("product_variant", "models.ProductVariant",
	FieldSpec[*ProductVariant]{Name: "id", Kind: KindUint, Get: func(v *ProductVariant) any { return v.ID }},
	FieldSpec[*ProductVariant]{Name: "product", Kind: KindRelation, Get: func(v *ProductVariant) any { return v.productRef() }},
	FieldSpec[*ProductVariant]{Name: "sku", Kind: KindString, Get: func(v *ProductVariant) any { return v.SKU }},
	FieldSpec[*ProductVariant]{Name: "name", Kind: KindString, Get: func(v *ProductVariant) any { return v.Name }},
	FieldSpec[*ProductVariant]{Name: "price", Kind: KindDecimal, Get: func(v *ProductVariant) any { return v.Price }},
	FieldSpec[*ProductVariant]{Name: "stock", Kind: KindInt, Get: func(v *ProductVariant) any { return v.Stock }},
	FieldSpec[*ProductVariant]{Name: "is_active", Kind: KindBool, Get: func(v *ProductVariant) any { return v.IsActive }},
	FieldSpec[*ProductVariant]{Name: "created_at", Kind: KindTime, Get: func(v *ProductVariant) any { return v.CreatedAt }},
	FieldSpec[*ProductVariant]{Name: "updated_at", Kind: KindTime, Get: func(v *ProductVariant) any { return v.UpdatedAt }},
)

func (v *ProductVariant) productRef() *RelationRef {
	if v.ProductID == 0 {
		return nil
	}
	ref := &RelationRef{ID: v.ProductID}
	if v.Product != nil {
		ref.Display = v.Product.DisplayString()
	}
	return ref
}

func (v *ProductVariant) AuditID() (uint, bool) {
	return optionalID(v.ID)
}

func (v *ProductVariant) EntityName() string {
	return productVariantSchema.Entity()
}

func (v *ProductVariant) QualifiedType() string {
	return productVariantSchema.Qualified()
}

func (v *ProductVariant) DisplayString() string {
	return fmt.Sprintf("%d: %s", v.ID, v.Name)
}

func (v *ProductVariant) AuditFields() []Field {
	return productVariantSchema.Fields(v)
}
