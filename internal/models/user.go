package models

import (
	"fmt"
	"time"
)

// UserRole enumerates admin console roles.
type UserRole string

const (
	RoleSuperAdmin UserRole = "superadmin"
	RoleAdmin      UserRole = "admin"
	RoleEditor     UserRole = "editor"
)

// User is an authenticated admin console account.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"size:255;uniqueIndex" json:"email"`
	FullName    string     `gorm:"size:255" json:"full_name"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        UserRole   `gorm:"size:32;not null;default:editor" json:"role"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var userSchema = NewSchema("user", "models.User",
	FieldSpec[*User]{Name: "id", Kind: KindUint, Get: func(u *User) any { return u.ID }},
	FieldSpec[*User]{Name: "username", Kind: KindString, Get: func(u *User) any { return u.Username }},
	FieldSpec[*User]{Name: "email", Kind: KindString, Get: func(u *User) any { return u.Email }},
	FieldSpec[*User]{Name: "full_name", Kind: KindString, Get: func(u *User) any { return u.FullName }},
	FieldSpec[*User]{Name: "password", Kind: KindString, Get: func(u *User) any { return u.Password }},
	FieldSpec[*User]{Name: "role", Kind: KindString, Get: func(u *User) any { return string(u.Role) }},
	FieldSpec[*User]{Name: "is_active", Kind: KindBool, Get: func(u *User) any { return u.IsActive }},
	FieldSpec[*User]{Name: "last_login_at", Kind: KindTime, Get: func(u *User) any { return u.LastLoginAt }},
	FieldSpec[*User]{Name: "created_at", Kind: KindTime, Get: func(u *User) any { return u.CreatedAt }},
	FieldSpec[*User]{Name: "updated_at", Kind: KindTime, Get: func(u *User) any { return u.UpdatedAt }},
)

// AuditID implements Auditable.
func (u *User) AuditID() (uint, bool) {
	return optionalID(u.ID)
}

// EntityName implements Auditable.
func (u *User) EntityName() string {
	return userSchema.Entity()
}

// QualifiedType implements Auditable.
func (u *User) QualifiedType() string {
	return userSchema.Qualified()
}

// AuditFields implements Auditable.
func (u *User) AuditFields() []Field {
	return userSchema.Fields(u)
}

// DisplayString implements Auditable.
func (u *User) DisplayString() string {
	return fmt.Sprintf("%d: %s", u.ID, u.Username)
}

// IsAuthenticated reports whether the user is a persisted, active account.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != 0 && u.IsActive
}

// Identifier prefers the email and falls back to the username.
func (u *User) Identifier() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
