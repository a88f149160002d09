package audit

import (
	"context"
	"time"

	"github.com/noah-isme/company-site-api/internal/models"
)

// Store is the append-only persistence behind the audit logger.
type Store interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	Query(ctx context.Context, filter QueryFilter) ([]models.ActivityLog, error)
}

// QueryFilter narrows activity log lookups. Zero values are ignored.
// Results are ordered by created_at descending.
type QueryFilter struct {
	Entity          string
	EntityID        *uint
	Action          models.Action
	ActorType       models.ActorType
	UserID          *uint
	ActorIdentifier string
	Since           time.Time
	Until           time.Time
	Limit           int
}
