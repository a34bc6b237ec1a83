package models

import "time"

// FacultyProfile carries the faculty-side domain identity, one per user.
type FacultyProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	FacultyCode string    `gorm:"size:64;not null;uniqueIndex" json:"faculty_code"`
	Department  string    `gorm:"size:128;not null;index" json:"department"`
	Designation string    `gorm:"size:128;not null" json:"designation"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
