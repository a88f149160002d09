package models

import (
	"strings"
	"time"
)

// Action is the closed set of activity types recorded in the audit trail.
type Action string

const (
	ActionCreate   Action = "CREATE"
	ActionUpdate   Action = "UPDATE"
	ActionDelete   Action = "DELETE"
	ActionView     Action = "VIEW"
	ActionLogin    Action = "LOGIN"
	ActionLogout   Action = "LOGOUT"
	ActionSubmit   Action = "SUBMIT"
	ActionDownload Action = "DOWNLOAD"
	ActionUpload   Action = "UPLOAD"
	ActionExport   Action = "EXPORT"
	ActionImport   Action = "IMPORT"
)

var knownActions = []Action{
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionView,
	ActionLogin,
	ActionLogout,
	ActionSubmit,
	ActionDownload,
	ActionUpload,
	ActionExport,
	ActionImport,
}

// KnownActions returns every accepted action value.
func KnownActions() []Action {
	return append([]Action(nil), knownActions...)
}

// Valid reports whether the action belongs to the known set.
func (a Action) Valid() bool {
	for _, known := range knownActions {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAction normalises free-form input such as "create" into an Action.
func ParseAction(value string) (Action, bool) {
	action := Action(strings.ToUpper(strings.TrimSpace(value)))
	return action, action.Valid()
}

// ActorType distinguishes authenticated users from anonymous guests.
type ActorType string

const (
	ActorUser  ActorType = "user"
	ActorGuest ActorType = "guest"
)

// NoComputedEntity marks records that have no backing model type.
const NoComputedEntity = "-"

// ActivityLog is an append-only audit record of a mutation or notable access.
type ActivityLog struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Action          Action          `gorm:"size:32;not null;index" json:"action"`
	Entity          string          `gorm:"size:64;not null;index:idx_activity_logs_entity,priority:1" json:"entity"`
	ComputedEntity  string          `gorm:"size:128;not null;default:'-'" json:"computed_entity"`
	EntityID        *uint           `gorm:"index:idx_activity_logs_entity,priority:2" json:"entity_id"`
	EntityName      *string         `gorm:"size:255" json:"entity_name"`
	OldValues       NullableJSONMap `gorm:"type:json" json:"old_values"`
	NewValues       NullableJSONMap `gorm:"type:json" json:"new_values"`
	ChangedFields   []string        `gorm:"type:json;serializer:json" json:"changed_fields"`
	Description     string          `gorm:"type:text" json:"description"`
	IPAddress       *string         `gorm:"size:45" json:"ip_address"`
	UserAgent       string          `gorm:"type:text" json:"user_agent"`
	UserID          *uint           `gorm:"index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	ActorType       ActorType       `gorm:"size:16;not null;index" json:"actor_type"`
	ActorIdentifier string          `gorm:"size:255;index" json:"actor_identifier"`
	ActorName       string          `gorm:"size:255" json:"actor_name"`
	ActorMetadata   NullableJSONMap `gorm:"type:json" json:"actor_metadata"`
	ExtraData       NullableJSONMap `gorm:"type:json" json:"extra_data"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

// TableName pins the audit table name.
func (ActivityLog) TableName() string {
	return "activity_logs"
}
