package models

import (
	"fmt"
	"time"
)

// Banner is a hero slide shown on the public home page.
type Banner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Subtitle  string    `gorm:"size:255" json:"subtitle"`
	Image     string    `gorm:"size:512;not null" json:"image"`
	LinkURL   string    `gorm:"size:512" json:"link_url"`
	OrderNo   int       `gorm:"not null;default:0;index" json:"order_no"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var bannerSchema = NewSchema("banner", "models.Banner",
	FieldSpec[*Banner]{Name: "id", Kind: KindUint, Get: func(b *Banner) any { return b.ID }},
	FieldSpec[*Banner]{Name: "title", Kind: KindString, Get: func(b *Banner) any { return b.Title }},
	FieldSpec[*Banner]{Name: "subtitle", Kind: KindString, Get: func(b *Banner) any { return b.Subtitle }},
	FieldSpec[*Banner]{Name: "image", Kind: KindFile, Get: func(b *Banner) any { return b.Image }},
	FieldSpec[*Banner]{Name: "link_url", Kind: KindString, Get: func(b *Banner) any { return b.LinkURL }},
	FieldSpec[*Banner]{Name: "order_no", Kind: KindInt, Get: func(b *Banner) any { return b.OrderNo }},
	FieldSpec[*Banner]{Name: "is_active", Kind: KindBool, Get: func(b *Banner) any { return b.IsActive }},
	FieldSpec[*Banner]{Name: "created_at", Kind: KindTime, Get: func(b *Banner) any { return b.CreatedAt }},
	FieldSpec[*Banner]{Name: "updated_at", Kind: KindTime, Get: func(b *Banner) any { return b.UpdatedAt }},
)

func (b *Banner) AuditID() (uint, bool) {
	return optionalID(b.ID)
}

func (b *Banner) EntityName() string {
	return bannerSchema.Entity()
}

func (b *Banner) QualifiedType() string {
	return bannerSchema.Qualified()
}

func (b *Banner) DisplayString() string {
	return fmt.Sprintf("%d: %s", b.ID, b.Title)
}

func (b *Banner) AuditFields() []Field {
	return bannerSchema.Fields(b)
}

// MenuPosition is where a navigation menu is rendered.
type MenuPosition string

const (
	MenuHeader  MenuPosition = "header"
	MenuFooter  MenuPosition = "footer"
	MenuSidebar MenuPosition = "sidebar"
)

// Valid reports whether p is a known position.
func (p MenuPosition) Valid() bool {
	switch p {
	case MenuHeader, MenuFooter, MenuSidebar:
		return true
	}
	return false
}

// Menu is a named navigation menu.
type Menu struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	Position  MenuPosition `gorm:"size:20;not null;default:'header';index" json:"position"`
	Items     []MenuItem   `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

var menuSchema = NewSchema("menu", "models.Menu",
	FieldSpec[*Menu]{Name: "id", Kind: KindUint, Get: func(m *Menu) any { return m.ID }},
	FieldSpec[*Menu]{Name: "name", Kind: KindString, Get: func(m *Menu) any { return m.Name }},
	FieldSpec[*Menu]{Name: "position", Kind: KindString, Get: func(m *Menu) any { return string(m.Position) }},
	FieldSpec[*Menu]{Name: "created_at", Kind: KindTime, Get: func(m *Menu) any { return m.CreatedAt }},
	FieldSpec[*Menu]{Name: "updated_at", Kind: KindTime, Get: func(m *Menu) any { return m.UpdatedAt }},
)

func (m *Menu) AuditID() (uint, bool) {
	return optionalID(m.ID)
}

func (m *Menu) EntityName() string {
	return menuSchema.Entity()
}

func (m *Menu) QualifiedType() string {
	return menuSchema.Qualified()
}

func (m *Menu) DisplayString() string {
	return fmt.Sprintf("%d: %s", m.ID, m.Name)
}

func (m *Menu) AuditFields() []Field {
	return menuSchema.Fields(m)
}

// MenuItem is one link of a menu, optionally nested under another item.
type MenuItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MenuID    uint      `gorm:"not null;index" json:"menu_id"`
	Menu      *Menu     `json:"-"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Parent    *MenuItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Lang      string    `gorm:"size:10;not null;default:'en'" json:"lang"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	Link      string    `gorm:"size:255;not null" json:"link"`
	OrderNo   int       `gorm:"not null;default:0" json:"order_no"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var menuItemSchema = NewSchema("menu_item", "models.MenuItem",
	FieldSpec[*MenuItem]{Name: "id", Kind: KindUint, Get: func(i *MenuItem) any { return i.ID }},
	FieldSpec[*MenuItem]{Name: "menu", Kind: KindRelation, Get: func(i *MenuItem) any { return i.menuRef() }},
	FieldSpec[*MenuItem]{Name: "parent", Kind: KindRelation, Get: func(i *MenuItem) any { return i.parentRef() }},
	FieldSpec[*MenuItem]{Name: "lang", Kind: KindString, Get: func(i *MenuItem) any { return i.Lang }},
	FieldSpec[*MenuItem]{Name: "label", Kind: KindString, Get: func(i *MenuItem) any { return i.Label }},
	FieldSpec[*MenuItem]{Name: "link", Kind: KindString, Get: func(i *MenuItem) any { return i.Link }},
	FieldSpec[*MenuItem]{Name: "order_no", Kind: KindInt, Get: func(i *MenuItem) any { return i.OrderNo }},
	FieldSpec[*MenuItem]{Name: "created_at", Kind: KindTime, Get: func(i *MenuItem) any { return i.CreatedAt }},
	FieldSpec[*MenuItem]{Name: "updated_at", Kind: KindTime, Get: func(i *MenuItem) any { return i.UpdatedAt }},
)

func (i *MenuItem) menuRef() *RelationRef {
	if i.MenuID == 0 {
		return nil
	}
	ref := &RelationRef{ID: i.MenuID}
	if i.Menu != nil {
		ref.Display = i.Menu.DisplayString()
	}
	return ref
}

func (i *MenuItem) parentRef() *RelationRef {
	if i.ParentID == nil {
		return nil
	}
	ref := &RelationRef{ID: *i.ParentID}
	if i.Parent != nil {
		ref.Display = i.Parent.DisplayString()
	}
	return ref
}

func (i *MenuItem) AuditID() (uint, bool) {
	return optionalID(i.ID)
}

func (i *MenuItem) EntityName() string {
	return menuItemSchema.Entity()
}

func (i *MenuItem) QualifiedType() string {
	return menuItemSchema.Qualified()
}

func (i *MenuItem) DisplayString() string {
	return fmt.Sprintf("%d: %s", i.ID, i.Label)
}

func (i *MenuItem) AuditFields() []Field {
	return menuItemSchema.Fields(i)
}
