package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/lor-tracker-api/internal/policy"
)

// Submission is the central LoR request record. Status mutations go through
// the policy engine only; every accepted transition appends to AuditLog.
//
// The partial unique index on (student_id, faculty_id) scoped to active rows
// is the critical business rule: a student never holds two simultaneously
// active submissions with the same faculty, while any number of historical
// (inactive) rows may share the pair.
type Submission struct {
	ID             uint                                   `gorm:"primaryKey" json:"id"`
	StudentID      uint                                   `gorm:"not null;index;uniqueIndex:uniq_active_submission_pair,where:is_active" json:"student_id"`
	FacultyID      uint                                   `gorm:"not null;index;uniqueIndex:uniq_active_submission_pair,where:is_active" json:"faculty_id"`
	Status         policy.Status                          `gorm:"size:16;not null;default:submitted;index" json:"status"`
	Deadline       time.Time                              `gorm:"not null;index" json:"deadline"`
	UniversityName string                                 `gorm:"size:200" json:"university_name,omitempty"`
	Purpose        string                                 `gorm:"size:500" json:"purpose,omitempty"`
	IsAlumni       bool                                   `gorm:"not null;default:false" json:"is_alumni"`
	CurrentVersion int                                    `gorm:"not null;default:1" json:"current_version"`
	FacultyNotes   string                                 `gorm:"type:text" json:"faculty_notes,omitempty"`
	AuditLog       datatypes.JSONSlice[policy.AuditEntry] `json:"audit_log"`
	IsActive       bool                                   `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time                              `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                              `json:"updated_at"`
}

// IsTerminal reports whether the submission can no longer change status.
func (s Submission) IsTerminal() bool {
	return policy.IsTerminal(s.Status)
}

// Deletable reports whether the owning student may still soft-delete the
// submission.
func (s Submission) Deletable() bool {
	return s.Status != policy.StatusApproved && s.Status != policy.StatusCompleted
}
