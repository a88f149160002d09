package models

import (
	"fmt"
	"time"
)

// Specification is a reusable attribute (size, finish, material) that
// product variants can carry a value for.
type Specification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	Icon      string    `gorm:"size:512" json:"icon"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var specificationSchema = NewSchema("specification", "models.Specification",
	FieldSpec[*Specification]{Name: "id", Kind: KindUint, Get: func(s *Specification) any { return s.ID }},
	FieldSpec[*Specification]{Name: "slug", Kind: KindString, Get: func(s *Specification) any { return s.Slug }},
	FieldSpec[*Specification]{Name: "label", Kind: KindString, Get: func(s *Specification) any { return s.Label }},
	FieldSpec[*Specification]{Name: "icon", Kind: KindFile, Get: func(s *Specification) any { return s.Icon }},
	FieldSpec[*Specification]{Name: "is_active", Kind: KindBool, Get: func(s *Specification) any { return s.IsActive }},
	FieldSpec[*Specification]{Name: "created_at", Kind: KindTime, Get: func(s *Specification) any { return s.CreatedAt }},
	FieldSpec[*Specification]{Name: "updated_at", Kind: KindTime, Get: func(s *Specification) any { return s.UpdatedAt }},
)

func (s *Specification) AuditID() (uint, bool) {
	return optionalID(s.ID)
}

func (s *Specification) EntityName() string {
	return specificationSchema.Entity()
}

func (s *Specification) QualifiedType() string {
	return specificationSchema.Qualified()
}

func (s *Specification) DisplayString() string {
	return fmt.Sprintf("%d: %s", s.ID, s.Label)
}

func (s *Specification) AuditFields() []Field {
	return specificationSchema.Fields(s)
}

// ProductSpecification is the value a variant carries for one specification.
type ProductSpecification struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	VariantID       uint            `gorm:"not null;uniqueIndex:idx_variant_specification,priority:1" json:"variant_id"`
	Variant         *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
	SpecificationID uint            `gorm:"not null;uniqueIndex:idx_variant_specification,priority:2" json:"specification_id"`
	Specification   *Specification  `gorm:"constraint:OnDelete:CASCADE" json:"specification,omitempty"`
	Value           string          `gorm:"size:255;not null" json:"value"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

var productSpecificationSchema = NewSchema("product_specification", "models.ProductSpecification",
	FieldSpec[*ProductSpecification]{Name: "id", Kind: KindUint, Get: func(p *ProductSpecification) any { return p.ID }},
	FieldSpec[*ProductSpecification]{Name: "variant", Kind: KindRelation, Get: func(p *ProductSpecification) any { return p.variantRef() }},
	FieldSpec[*ProductSpecification]{Name: "specification", Kind: KindRelation, Get: func(p *ProductSpecification) any { return p.specificationRef() }},
	FieldSpec[*ProductSpecification]{Name: "value", Kind: KindString, Get: func(p *ProductSpecification) any { return p.Value }},
	FieldSpec[*ProductSpecification]{Name: "created_at", Kind: KindTime, Get: func(p *ProductSpecification) any { return p.CreatedAt }},
	FieldSpec[*ProductSpecification]{Name: "updated_at", Kind: KindTime, Get: func(p *ProductSpecification) any { return p.UpdatedAt }},
)

func (p *ProductSpecification) variantRef() *RelationRef {
	if p.VariantID == 0 {
		return nil
	}
	ref := &RelationRef{ID: p.VariantID}
	if p.Variant != nil {
		ref.Display = p.Variant.DisplayString()
	}
	return ref
}

func (p *ProductSpecification) specificationRef() *RelationRef {
	if p.SpecificationID == 0 {
		return nil
	}
	ref := &RelationRef{ID: p.SpecificationID}
	if p.Specification != nil {
		ref.Display = p.Specification.DisplayString()
	}
	return ref
}

func (p *ProductSpecification) AuditID() (uint, bool) {
	return optionalID(p.ID)
}

func (p *ProductSpecification) EntityName() string {
	return productSpecificationSchema.Entity()
}

func (p *ProductSpecification) QualifiedType() string {
	return productSpecificationSchema.Qualified()
}

func (p *ProductSpecification) DisplayString() string {
	if p.Specification != nil {
		return fmt.Sprintf("%d: %s = %s", p.ID, p.Specification.Label, p.Value)
	}
	return fmt.Sprintf("%d: %s", p.ID, p.Value)
}

func (p *ProductSpecification) AuditFields() []Field {
	return productSpecificationSchema.Fields(p)
}
