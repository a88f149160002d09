package dto

import (
	"time"

	"github.com/noah-isme/company-site-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminActivityListRequest defines filters for retrieving activity logs.
type AdminActivityListRequest struct {
	Page            int
	PageSize        int
	Entity          string
	EntityID        *uint
	Action          string
	ActorType       string
	UserID          *uint
	ActorIdentifier string
	Since           time.Time
	Until           time.Time
}

// AdminActivityResponse serializes activity log entries.
type AdminActivityResponse struct {
	ID              uint                   `json:"id"`
	Action          string                 `json:"action"`
	Entity          string                 `json:"entity"`
	ComputedEntity  string                 `json:"computed_entity"`
	EntityID        *uint                  `json:"entity_id"`
	EntityName      *string                `json:"entity_name"`
	OldValues       map[string]interface{} `json:"old_values"`
	NewValues       map[string]interface{} `json:"new_values"`
	ChangedFields   []string               `json:"changed_fields"`
	Description     string                 `json:"description"`
	IPAddress       *string                `json:"ip_address"`
	UserAgent       string                 `json:"user_agent"`
	UserID          *uint                  `json:"user_id"`
	ActorType       string                 `json:"actor_type"`
	ActorIdentifier string                 `json:"actor_identifier"`
	ActorName       string                 `json:"actor_name"`
	ActorMetadata   map[string]interface{} `json:"actor_metadata"`
	ExtraData       map[string]interface{} `json:"extra_data"`
	CreatedAt       time.Time              `json:"created_at"`
}

// AdminActivityListResponse wraps paginated activity logs.
type AdminActivityListResponse struct {
	Items      []AdminActivityResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

func nullableMap(data models.NullableJSONMap) map[string]interface{} {
	if data == nil {
		return nil
	}
	return map[string]interface{}(data)
}

func metadataFromJSON(data models.NullableJSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}

// NewAdminActivityResponse converts a model into an activity DTO.
func NewAdminActivityResponse(entry models.ActivityLog) AdminActivityResponse {
	return AdminActivityResponse{
		ID:              entry.ID,
		Action:          string(entry.Action),
		Entity:          entry.Entity,
		ComputedEntity:  entry.ComputedEntity,
		EntityID:        entry.EntityID,
		EntityName:      entry.EntityName,
		OldValues:       nullableMap(entry.OldValues),
		NewValues:       nullableMap(entry.NewValues),
		ChangedFields:   entry.ChangedFields,
		Description:     entry.Description,
		IPAddress:       entry.IPAddress,
		UserAgent:       entry.UserAgent,
		UserID:          entry.UserID,
		ActorType:       string(entry.ActorType),
		ActorIdentifier: entry.ActorIdentifier,
		ActorName:       entry.ActorName,
		ActorMetadata:   nullableMap(entry.ActorMetadata),
		ExtraData:       metadataFromJSON(entry.ExtraData),
		CreatedAt:       entry.CreatedAt,
	}
}

// AdminContactListRequest defines filters for listing contact messages.
type AdminContactListRequest struct {
	Search   string
	Unread   *bool
	Page     int
	PageSize int
}

// AdminContactResponse exposes a contact message to the admin console.
type AdminContactResponse struct {
	ID          uint      `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminContactListResponse wraps paginated contact messages.
type AdminContactListResponse struct {
	Items      []AdminContactResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// NewAdminContactResponse converts a contact message into its admin DTO.
func NewAdminContactResponse(model models.ContactMessage) AdminContactResponse {
	return AdminContactResponse{
		ID:          model.ID,
		ReferenceID: model.ReferenceID.String(),
		Name:        model.Name,
		Email:       model.Email,
		Phone:       model.Phone,
		Subject:     model.Subject,
		Message:     model.Message,
		IsRead:      model.IsRead,
		CreatedAt:   model.CreatedAt,
	}
}

// BulkIDsRequest carries the targets of a bulk admin action.
type BulkIDsRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,max=200,dive,gt=0"`
}

// BulkActiveRequest toggles the active flag of several records.
type BulkActiveRequest struct {
	IDs      []uint `json:"ids" validate:"required,min=1,max=200,dive,gt=0"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

// BulkResultResponse reports the outcome of a bulk admin action.
type BulkResultResponse struct {
	Succeeded []uint `json:"succeeded"`
	Failed    []uint `json:"failed"`
}

// ActionCountResponse maps an action or actor type to its occurrence count.
type ActionCountResponse map[string]int64

// EntityCountPoint reports how often one entity type was touched.
type EntityCountPoint struct {
	Entity string `json:"entity"`
	Count  int64  `json:"count"`
}

// WeeklyActivityPoint aggregates activity per ISO week.
type WeeklyActivityPoint struct {
	WeekStart time.Time `json:"week_start"`
	Total     int64     `json:"total"`
	Guests    int64     `json:"guests"`
}

// AdminAnalyticsResponse summarises the audit trail for the dashboard.
type AdminAnalyticsResponse struct {
	ActiveUsers     int64                 `json:"active_users"`
	TotalActivities int64                 `json:"total_activities"`
	ByAction        ActionCountResponse   `json:"by_action"`
	ByActorType     ActionCountResponse   `json:"by_actor_type"`
	TopEntities     []EntityCountPoint    `json:"top_entities"`
	BulkOperations  int64                 `json:"bulk_operations"`
	WeeklyActivity  []WeeklyActivityPoint `json:"weekly_activity"`
	GeneratedAt     time.Time             `json:"generated_at"`
	CacheHit        bool                  `json:"cache_hit"`
}
