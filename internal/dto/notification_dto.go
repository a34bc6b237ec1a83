package dto

import (
	"time"

	"github.com/noah-isme/lor-tracker-api/internal/models"
)

// NotificationResponse is the in-app notification view.
type NotificationResponse struct {
	ID           uint      `json:"id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	SubmissionID *uint     `json:"submission_id,omitempty"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewNotificationResponse maps a notification model to its response shape.
func NewNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Message:      n.Message,
		SubmissionID: n.SubmissionID,
		Read:         n.Read,
		CreatedAt:    n.CreatedAt,
	}
}

// NewNotificationResponseSlice maps notification models to response shapes.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}
