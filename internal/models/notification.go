package models

import "time"

// Notification kinds emitted by the submission lifecycle.
const (
	NotificationSubmissionReceived    = "submission_received"
	NotificationResubmissionRequested = "resubmission_requested"
	NotificationSubmissionRejected    = "submission_rejected"
	NotificationDraftApproved         = "draft_approved"
	NotificationLoRCompleted          = "lor_completed"
)

// Notification is an in-app message targeted at one user. Delivery of the
// matching email is best-effort and handled outside the primary write path.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Type         string    `gorm:"size:64;not null" json:"type"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	SubmissionID *uint     `gorm:"index" json:"submission_id,omitempty"`
	Read         bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
