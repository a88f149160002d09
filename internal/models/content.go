package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project showcases completed work on the public site.
type Project struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Slug            string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Location        string         `gorm:"size:255" json:"location"`
	Description     string         `gorm:"type:text" json:"description"`
	Image           string         `gorm:"size:512" json:"image"`
	Gallery         datatypes.JSON `gorm:"type:json" json:"gallery"`
	MetaTitle       string         `gorm:"size:255" json:"meta_title"`
	MetaDescription string         `gorm:"type:text" json:"meta_description"`
	IsActive        bool           `gorm:"not null;index" json:"is_active"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

var projectSchema = NewSchema("project", "models.Project",
	FieldSpec[*Project]{Name: "id", Kind: KindUint, Get: func(p *Project) any { return p.ID }},
	FieldSpec[*Project]{Name: "title", Kind: KindString, Get: func(p *Project) any { return p.Title }},
	FieldSpec[*Project]{Name: "slug", Kind: KindString, Get: func(p *Project) any { return p.Slug }},
	FieldSpec[*Project]{Name: "location", Kind: KindString, Get: func(p *Project) any { return p.Location }},
	FieldSpec[*Project]{Name: "description", Kind: KindString, Get: func(p *Project) any { return p.Description }},
	FieldSpec[*Project]{Name: "image", Kind: KindFile, Get: func(p *Project) any { return p.Image }},
	FieldSpec[*Project]{Name: "gallery", Kind: KindJSON, Get: func(p *Project) any { return p.Gallery }},
	FieldSpec[*Project]{Name: "meta_title", Kind: KindString, Get: func(p *Project) any { return p.MetaTitle }},
	FieldSpec[*Project]{Name: "meta_description", Kind: KindString, Get: func(p *Project) any { return p.MetaDescription }},
	FieldSpec[*Project]{Name: "is_active", Kind: KindBool, Get: func(p *Project) any { return p.IsActive }},
	FieldSpec[*Project]{Name: "created_at", Kind: KindTime, Get: func(p *Project) any { return p.CreatedAt }},
	FieldSpec[*Project]{Name: "updated_at", Kind: KindTime, Get: func(p *Project) any { return p.UpdatedAt }},
)

func (p *Project) AuditID() (uint, bool) {
	return optionalID(p.ID)
}

func (p *Project) EntityName() string {
	return projectSchema.Entity()
}

func (p *Project) QualifiedType() string {
	return projectSchema.Qualified()
}

func (p *Project) DisplayString() string {
	return fmt.Sprintf("%d: %s", p.ID, p.Title)
}

func (p *Project) AuditFields() []Field {
	return projectSchema.Fields(p)
}

// ContactMessage stores an enquiry submitted through the public contact form.
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferenceID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"reference_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;index" json:"email"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Subject     string    `gorm:"size:255;not null" json:"subject"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	Checksum    string    `gorm:"size:128;index" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var contactMessageSchema = NewSchema("contact_message", "models.ContactMessage",
	FieldSpec[*ContactMessage]{Name: "id", Kind: KindUint, Get: func(m *ContactMessage) any { return m.ID }},
	FieldSpec[*ContactMessage]{Name: "reference_id", Kind: KindUUID, Get: func(m *ContactMessage) any { return m.ReferenceID }},
	FieldSpec[*ContactMessage]{Name: "name", Kind: KindString, Get: func(m *ContactMessage) any { return m.Name }},
	FieldSpec[*ContactMessage]{Name: "email", Kind: KindString, Get: func(m *ContactMessage) any { return m.Email }},
	FieldSpec[*ContactMessage]{Name: "phone", Kind: KindString, Get: func(m *ContactMessage) any { return m.Phone }},
	FieldSpec[*ContactMessage]{Name: "subject", Kind: KindString, Get: func(m *ContactMessage) any { return m.Subject }},
	FieldSpec[*ContactMessage]{Name: "message", Kind: KindString, Get: func(m *ContactMessage) any { return m.Message }},
	FieldSpec[*ContactMessage]{Name: "is_read", Kind: KindBool, Get: func(m *ContactMessage) any { return m.IsRead }},
	FieldSpec[*ContactMessage]{Name: "created_at", Kind: KindTime, Get: func(m *ContactMessage) any { return m.CreatedAt }},
)

func (m *ContactMessage) AuditID() (uint, bool) {
	return optionalID(m.ID)
}

func (m *ContactMessage) EntityName() string {
	return contactMessageSchema.Entity()
}

func (m *ContactMessage) QualifiedType() string {
	return contactMessageSchema.Qualified()
}

func (m *ContactMessage) DisplayString() string {
	return fmt.Sprintf("%d: %s - %s", m.ID, m.Subject, m.Name)
}

func (m *ContactMessage) AuditFields() []Field {
	return contactMessageSchema.Fields(m)
}

// Setting is a keyed site configuration value editable from the admin console.
type Setting struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Value       datatypes.JSON `gorm:"type:json" json:"value"`
	Description string         `gorm:"size:255" json:"description"`
	IsPublic    bool           `gorm:"not null;default:false;index" json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

var settingSchema = NewSchema("setting", "models.Setting",
	FieldSpec[*Setting]{Name: "id", Kind: KindUint, Get: func(s *Setting) any { return s.ID }},
	FieldSpec[*Setting]{Name: "name", Kind: KindString, Get: func(s *Setting) any { return s.Name }},
	FieldSpec[*Setting]{Name: "value", Kind: KindJSON, Get: func(s *Setting) any { return s.Value }},
	FieldSpec[*Setting]{Name: "description", Kind: KindString, Get: func(s *Setting) any { return s.Description }},
	FieldSpec[*Setting]{Name: "is_public", Kind: KindBool, Get: func(s *Setting) any { return s.IsPublic }},
	FieldSpec[*Setting]{Name: "updated_at", Kind: KindTime, Get: func(s *Setting) any { return s.UpdatedAt }},
)

func (s *Setting) AuditID() (uint, bool) {
	return optionalID(s.ID)
}

func (s *Setting) EntityName() string {
	return settingSchema.Entity()
}

func (s *Setting) QualifiedType() string {
	return settingSchema.Qualified()
}

func (s *Setting) DisplayString() string {
	return fmt.Sprintf("%d: %s", s.ID, s.Name)
}

func (s *Setting) AuditFields() []Field {
	return settingSchema.Fields(s)
}
