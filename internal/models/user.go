package models

import (
	"time"

	"github.com/noah-isme/lor-tracker-api/internal/policy"
)

// User account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// User is the global identity record. Users are never deleted, only
// deactivated via Status.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Email        string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         policy.Role `gorm:"size:16;not null;index" json:"role"`
	Status       string      `gorm:"size:16;not null;default:active;index" json:"status"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsActive reports whether the account may act in the system.
func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}
