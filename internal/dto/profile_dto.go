package dto

import (
	"time"

	"github.com/noah-isme/lor-tracker-api/internal/models"
)

// StudentProfileResponse is the student's own profile view.
type StudentProfileResponse struct {
	ID                 uint                      `json:"id"`
	RegistrationNumber string                    `json:"registration_number"`
	IsAlumni           bool                      `json:"is_alumni"`
	Department         string                    `json:"department"`
	VerificationStatus string                    `json:"verification_status"`
	TargetUniversities []models.TargetUniversity `json:"target_universities"`
	Employment         models.Employment         `json:"employment"`
	Certificates       []models.CertificateRef   `json:"certificates"`
}

// NewStudentProfileResponse maps a profile model to its response shape.
func NewStudentProfileResponse(p models.StudentProfile) StudentProfileResponse {
	return StudentProfileResponse{
		ID:                 p.ID,
		RegistrationNumber: p.RegistrationNumber,
		IsAlumni:           p.IsAlumni,
		Department:         p.Department,
		VerificationStatus: p.VerificationStatus,
		TargetUniversities: []models.TargetUniversity(p.TargetUniversities),
		Employment:         p.Employment.Data(),
		Certificates:       []models.CertificateRef(p.Certificates),
	}
}

// EmploymentRequest updates the embedded employment record. Conditional
// required fields are enforced by the service, not tags: employed needs
// company+role, studying needs university+course.
type EmploymentRequest struct {
	Status     string `json:"status" validate:"required,oneof=employed studying unemployed"`
	Company    string `json:"company" validate:"omitempty,max=200"`
	Role       string `json:"role" validate:"omitempty,max=128"`
	University string `json:"university" validate:"omitempty,max=200"`
	Course     string `json:"course" validate:"omitempty,max=128"`
	Remarks    string `json:"remarks" validate:"omitempty,max=500"`
}

// TargetUniversityRequest appends one target to the bounded list.
type TargetUniversityRequest struct {
	University string    `json:"university" validate:"required,max=200"`
	Program    string    `json:"program" validate:"required,max=128"`
	Deadline   time.Time `json:"deadline" validate:"required"`
	Purpose    string    `json:"purpose" validate:"required,max=500"`
}

// CertificateRequest links an already-uploaded certificate file.
type CertificateRequest struct {
	Type    string `json:"type" validate:"required,oneof=GRE GMAT CAT MAT OTHER"`
	FileID  uint   `json:"file_id" validate:"required"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

// FacultyProfileResponse is the faculty member's own profile view.
type FacultyProfileResponse struct {
	ID          uint   `json:"id"`
	FacultyCode string `json:"faculty_code"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// FacultyDirectoryEntry is the public listing students pick a recipient from.
type FacultyDirectoryEntry struct {
	ID          uint   `json:"id"`
	FacultyCode string `json:"faculty_code"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// FacultyUpdateRequest updates the non-critical profile fields.
type FacultyUpdateRequest struct {
	Designation string `json:"designation" validate:"required,max=128"`
}

// NewFacultyProfileResponse maps a profile model to its response shape.
func NewFacultyProfileResponse(p models.FacultyProfile) FacultyProfileResponse {
	return FacultyProfileResponse{
		ID:          p.ID,
		FacultyCode: p.FacultyCode,
		Department:  p.Department,
		Designation: p.Designation,
	}
}

// NewFacultyDirectorySlice maps active faculty profiles to directory entries.
func NewFacultyDirectorySlice(profiles []models.FacultyProfile) []FacultyDirectoryEntry {
	out := make([]FacultyDirectoryEntry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FacultyDirectoryEntry{
			ID:          p.ID,
			FacultyCode: p.FacultyCode,
			Department:  p.Department,
			Designation: p.Designation,
		})
	}
	return out
}
