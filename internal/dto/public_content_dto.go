package dto

import "time"

// ActivityFeedRequest describes the incoming query for recent activities.
type ActivityFeedRequest struct {
	Page      int
	PageSize  int
	UserID    *uint
	Entity    string
	Action    string
	ActorType string
}

// ActivityFeedItem is a compact activity entry for the admin dashboard.
type ActivityFeedItem struct {
	ID          uint      `json:"id"`
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	EntityID    *uint     `json:"entity_id"`
	EntityName  *string   `json:"entity_name"`
	Description string    `json:"description"`
	ActorType   string    `json:"actor_type"`
	ActorName   string    `json:"actor_name"`
	Username    string    `json:"username,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityFeedResponse wraps paginated activity items.
type ActivityFeedResponse struct {
	Items      []ActivityFeedItem `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
	CacheHit   bool               `json:"cache_hit"`
}

// ContactRequest defines the expected payload for the contact form endpoint.
type ContactRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" form:"email" validate:"required,email,max=160"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=50"`
	Subject  string `json:"subject" form:"subject" validate:"required,min=2,max=255"`
	Message  string `json:"message" form:"message" validate:"required,min=10,max=2000"`
	Source   string `json:"source" form:"source" validate:"omitempty,max=60"`
	Honeypot string `json:"_note" form:"_note"`
}

// ContactResponse communicates the status of the submission processing.
type ContactResponse struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
}

// DownloadRequest records a public asset download.
type DownloadRequest struct {
	Entity   string `validate:"required,oneof=product project"`
	EntityID uint   `validate:"required,gt=0"`
	Email    string `json:"email" validate:"omitempty,email,max=160"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

// DownloadResponse points at the asset that was requested.
type DownloadResponse struct {
	URL string `json:"url"`
}
