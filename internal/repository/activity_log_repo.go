package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/models"
)

// ActivityLogFilter narrows paginated activity log queries.
type ActivityLogFilter struct {
	audit.QueryFilter
	Page     int
	PageSize int
}

// ActivityLogRepository persists audit trail events. It is append-only.
type ActivityLogRepository interface {
	audit.Store
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
	ListRecent(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

func (r *activityLogRepository) Query(ctx context.Context, filter audit.QueryFilter) ([]models.ActivityLog, error) {
	query := applyActivityFilter(r.db.WithContext(ctx).Model(&models.ActivityLog{}), filter)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return r.paginate(r.db.WithContext(ctx).Model(&models.ActivityLog{}), filter)
}

func (r *activityLogRepository) ListRecent(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return r.paginate(r.db.WithContext(ctx).Model(&models.ActivityLog{}).Preload("User"), filter)
}

func (r *activityLogRepository) paginate(query *gorm.DB, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	query = applyActivityFilter(query, filter.QueryFilter)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func applyActivityFilter(query *gorm.DB, filter audit.QueryFilter) *gorm.DB {
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ActorType != "" {
		query = query.Where("actor_type = ?", filter.ActorType)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActorIdentifier != "" {
		query = query.Where("actor_identifier = ?", filter.ActorIdentifier)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at <= ?", filter.Until)
	}
	return query
}
