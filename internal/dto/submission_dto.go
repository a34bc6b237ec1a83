package dto

import (
	"time"

	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
)

// SubmissionCreateRequest is the payload for opening a new LoR request.
type SubmissionCreateRequest struct {
	FacultyID      uint      `json:"faculty_id" validate:"required"`
	Deadline       time.Time `json:"deadline" validate:"required"`
	UniversityName string    `json:"university_name" validate:"omitempty,max=200"`
	Purpose        string    `json:"purpose" validate:"omitempty,max=500"`
}

// SubmissionStatusRequest is the payload for a status transition.
type SubmissionStatusRequest struct {
	NewStatus policy.Status `json:"new_status" validate:"required,oneof=submitted resubmission approved rejected completed"`
	Remark    string        `json:"remark" validate:"omitempty,min=1,max=1000"`
}

// SubmissionFilter narrows list queries. IsActive defaults to true.
type SubmissionFilter struct {
	Status   *policy.Status `validate:"omitempty,oneof=submitted resubmission approved rejected completed"`
	IsActive *bool
}

// SubmissionListItem is the reduced projection used by list views. It omits
// the audit log and faculty notes.
type SubmissionListItem struct {
	ID             uint          `json:"id"`
	StudentID      uint          `json:"student_id"`
	FacultyID      uint          `json:"faculty_id"`
	Status         policy.Status `json:"status"`
	Deadline       time.Time     `json:"deadline"`
	UniversityName string        `json:"university_name,omitempty"`
	Purpose        string        `json:"purpose,omitempty"`
	CurrentVersion int           `json:"current_version"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// SubmissionDetail is the full projection, audit log included.
type SubmissionDetail struct {
	SubmissionListItem
	IsAlumni     bool                `json:"is_alumni"`
	FacultyNotes string              `json:"faculty_notes,omitempty"`
	AuditLog     []policy.AuditEntry `json:"audit_log"`
}

// NewSubmissionListItem maps a model to its list projection.
func NewSubmissionListItem(s models.Submission) SubmissionListItem {
	return SubmissionListItem{
		ID:             s.ID,
		StudentID:      s.StudentID,
		FacultyID:      s.FacultyID,
		Status:         s.Status,
		Deadline:       s.Deadline,
		UniversityName: s.UniversityName,
		Purpose:        s.Purpose,
		CurrentVersion: s.CurrentVersion,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// NewSubmissionListItemSlice maps a slice of models to list projections.
func NewSubmissionListItemSlice(subs []models.Submission) []SubmissionListItem {
	out := make([]SubmissionListItem, 0, len(subs))
	for _, s := range subs {
		out = append(out, NewSubmissionListItem(s))
	}
	return out
}

// NewSubmissionDetail maps a model to its detail projection. The audit log is
// returned oldest-first, as stored.
func NewSubmissionDetail(s models.Submission) SubmissionDetail {
	return SubmissionDetail{
		SubmissionListItem: NewSubmissionListItem(s),
		IsAlumni:           s.IsAlumni,
		FacultyNotes:       s.FacultyNotes,
		AuditLog:           []policy.AuditEntry(s.AuditLog),
	}
}
