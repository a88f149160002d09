package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/models"
)

// AdminAnalyticsRepository supplies data for administrator analytics dashboards.
type AdminAnalyticsRepository interface {
	CountActiveUsers(ctx context.Context) (int64, error)
	ListActivitySince(ctx context.Context, since time.Time) ([]models.ActivityLog, error)
}

type adminAnalyticsRepository struct {
	db *gorm.DB
}

// NewAdminAnalyticsRepository constructs the analytics repository.
func NewAdminAnalyticsRepository(db *gorm.DB) AdminAnalyticsRepository {
	return &adminAnalyticsRepository{db: db}
}

func (r *adminAnalyticsRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// ListActivitySince loads the columns needed for aggregation only.
func (r *adminAnalyticsRepository) ListActivitySince(ctx context.Context, since time.Time) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Select("id", "action", "entity", "actor_type", "extra_data", "created_at").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
