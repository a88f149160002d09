package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/company-site-api/internal/models"
)

// BannerRepository manages home page banners.
type BannerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	GetForUpdate(ctx context.Context, id uint) (models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id uint) error
}

type bannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository constructs a banner repository.
func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Model(&models.Banner{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.Banner
	err := query.Order("order_no ASC").Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *bannerRepository) GetForUpdate(ctx context.Context, id uint) (models.Banner, error) {
	var banner models.Banner
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&banner, id).Error
	return banner, err
}

func (r *bannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *bannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *bannerRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Banner{}, id)
}

// MenuRepository manages navigation menus and their items.
type MenuRepository interface {
	List(ctx context.Context, position models.MenuPosition) ([]models.Menu, error)
	GetForUpdate(ctx context.Context, id uint) (models.Menu, error)
	Create(ctx context.Context, menu *models.Menu) error
	Update(ctx context.Context, menu *models.Menu) error
	Delete(ctx context.Context, id uint) error
	GetItemForUpdate(ctx context.Context, menuID, id uint) (models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uint) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository constructs a menu repository.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) List(ctx context.Context, position models.MenuPosition) ([]models.Menu, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Menu{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_no ASC").Order("id ASC")
		})
	if position != "" {
		query = query.Where("position = ?", position)
	}
	var items []models.Menu
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *menuRepository) GetForUpdate(ctx context.Context, id uint) (models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&menu, id).Error
	return menu, err
}

func (r *menuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Omit("Items").Create(menu).Error
}

func (r *menuRepository) Update(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Omit("Items").Save(menu).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Menu{}, id)
}

func (r *menuRepository) GetItemForUpdate(ctx context.Context, menuID, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Menu").
		Where("menu_id = ?", menuID).
		First(&item, id).Error
	return item, err
}

func (r *menuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Omit("Menu", "Parent").Create(item).Error
}

func (r *menuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Omit("Menu", "Parent").Save(item).Error
}

func (r *menuRepository) DeleteItem(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.MenuItem{}, id)
}
