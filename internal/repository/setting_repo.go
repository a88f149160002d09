package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/company-site-api/internal/models"
)

// SettingRepository manages keyed site settings.
type SettingRepository interface {
	GetByNameForUpdate(ctx context.Context, name string) (models.Setting, error)
	ListPublic(ctx context.Context) ([]models.Setting, error)
	Create(ctx context.Context, setting *models.Setting) error
	Update(ctx context.Context, setting *models.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository constructs a setting repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetByNameForUpdate(ctx context.Context, name string) (models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&setting).Error
	return setting, err
}

func (r *settingRepository) ListPublic(ctx context.Context) ([]models.Setting, error) {
	var items []models.Setting
	err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *settingRepository) Create(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

func (r *settingRepository) Update(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
