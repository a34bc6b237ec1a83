package models

import "time"

// File types stored in the attachment registry.
const (
	FileTypeDraft       = "draft"
	FileTypeFinal       = "final"
	FileTypeCertificate = "certificate"
)

// File is an immutable attachment record. A file belongs to a submission
// (drafts, finals) or directly to a student profile (certificates); at least
// one of the two references must be set. Rows are never updated after
// insert, so there is no UpdatedAt.
type File struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID *uint     `gorm:"index:idx_submission_type_version,priority:1" json:"submission_id,omitempty"`
	StudentID    *uint     `gorm:"index" json:"student_id,omitempty"`
	Type         string    `gorm:"size:16;not null;index:idx_submission_type_version,priority:2" json:"type"`
	Version      int       `gorm:"not null;index:idx_submission_type_version,priority:3,sort:desc" json:"version"`
	UploadedBy   uint      `gorm:"not null" json:"uploaded_by"`
	StorageKey   string    `gorm:"size:512;not null;uniqueIndex" json:"-"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	MimeType     string    `gorm:"size:128;not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// Orphaned reports whether the file references neither a submission nor a
// student. Such rows are rejected before insert.
func (f File) Orphaned() bool {
	return f.SubmissionID == nil && f.StudentID == nil
}
