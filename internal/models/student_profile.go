package models

import (
	"time"

	"gorm.io/datatypes"
)

// Bounded sub-collection sizes on a student profile.
const (
	MaxTargetUniversities = 5
	MaxCertificates       = 5
)

// Employment statuses for the embedded employment record.
const (
	EmploymentEmployed   = "employed"
	EmploymentStudying   = "studying"
	EmploymentUnemployed = "unemployed"
)

// TargetUniversity is one entry of the bounded target list on a profile.
type TargetUniversity struct {
	ID         string    `json:"id"`
	University string    `json:"university"`
	Program    string    `json:"program"`
	Deadline   time.Time `json:"deadline"`
	Purpose    string    `json:"purpose"`
}

// Employment is the single embedded employment record. Required fields
// depend on Status: employed needs company+role, studying needs
// university+course.
type Employment struct {
	Status     string `json:"status"`
	Company    string `json:"company,omitempty"`
	Role       string `json:"role,omitempty"`
	University string `json:"university,omitempty"`
	Course     string `json:"course,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
}

// CertificateRef links an uploaded certificate file to the profile.
type CertificateRef struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	FileID  uint   `json:"file_id"`
	Comment string `json:"comment,omitempty"`
}

// StudentProfile carries the student-side domain identity. Submissions
// reference profiles, never users directly; authorization resolves the
// profile back to its UserID.
type StudentProfile struct {
	ID                 uint                                  `gorm:"primaryKey" json:"id"`
	UserID             uint                                  `gorm:"not null;uniqueIndex" json:"user_id"`
	RegistrationNumber string                                `gorm:"size:64;not null;uniqueIndex" json:"registration_number"`
	IsAlumni           bool                                  `gorm:"not null;default:false;index" json:"is_alumni"`
	Department         string                                `gorm:"size:128;not null;index" json:"department"`
	VerificationStatus string                                `gorm:"size:16;not null;default:pending" json:"verification_status"`
	TargetUniversities datatypes.JSONSlice[TargetUniversity] `json:"target_universities"`
	Employment         datatypes.JSONType[Employment]        `json:"employment"`
	Certificates       datatypes.JSONSlice[CertificateRef]   `json:"certificates"`
	IsActive           bool                                  `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time                             `json:"created_at"`
	UpdatedAt          time.Time                             `json:"updated_at"`
}
