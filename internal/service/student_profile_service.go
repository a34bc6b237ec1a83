package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
)

// StudentProfileService manages the student's own profile: the embedded
// employment record and the two bounded lists.
type StudentProfileService interface {
	GetOwn(ctx context.Context, userID uint) (dto.StudentProfileResponse, error)
	UpdateEmployment(ctx context.Context, userID uint, payload dto.EmploymentRequest) (dto.StudentProfileResponse, error)
	AddTargetUniversity(ctx context.Context, userID uint, payload dto.TargetUniversityRequest) (dto.StudentProfileResponse, error)
	RemoveTargetUniversity(ctx context.Context, userID uint, targetID string) (dto.StudentProfileResponse, error)
	AddCertificate(ctx context.Context, userID uint, payload dto.CertificateRequest) (dto.StudentProfileResponse, error)
	RemoveCertificate(ctx context.Context, userID uint, certificateID string) (dto.StudentProfileResponse, error)
}

type studentProfileService struct {
	profiles  repository.StudentProfileRepository
	files     repository.FileRepository
	validator *validator.Validate
	logger    zerolog.Logger
	newID     func() string
}

// NewStudentProfileService constructs a StudentProfileService.
func NewStudentProfileService(profiles repository.StudentProfileRepository, files repository.FileRepository, validate *validator.Validate, logger zerolog.Logger) StudentProfileService {
	return &studentProfileService{
		profiles:  profiles,
		files:     files,
		validator: validate,
		logger:    logger.With().Str("component", "student_profile_service").Logger(),
		newID:     uuid.NewString,
	}
}

func (s *studentProfileService) GetOwn(ctx context.Context, userID uint) (dto.StudentProfileResponse, error) {
	profile, err := s.loadOwn(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}
	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) UpdateEmployment(ctx context.Context, userID uint, payload dto.EmploymentRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	employment := models.Employment{
		Status:  payload.Status,
		Remarks: payload.Remarks,
	}
	switch payload.Status {
	case models.EmploymentEmployed:
		if payload.Company == "" || payload.Role == "" {
			return dto.StudentProfileResponse{}, ErrEmploymentFields
		}
		employment.Company = payload.Company
		employment.Role = payload.Role
	case models.EmploymentStudying:
		if payload.University == "" || payload.Course == "" {
			return dto.StudentProfileResponse{}, ErrEmploymentFields
		}
		employment.University = payload.University
		employment.Course = payload.Course
	}

	profile, err := s.loadOwn(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	profile.Employment = datatypes.NewJSONType(employment)
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Str("status", payload.Status).Msg("employment updated")
	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) AddTargetUniversity(ctx context.Context, userID uint, payload dto.TargetUniversityRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	profile, err := s.loadOwn(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	if len(profile.TargetUniversities) >= models.MaxTargetUniversities {
		return dto.StudentProfileResponse{}, ErrTargetLimit
	}

	profile.TargetUniversities = append(profile.TargetUniversities, models.TargetUniversity{
		ID:         s.newID(),
		University: payload.University,
		Program:    payload.Program,
		Deadline:   payload.Deadline,
		Purpose:    payload.Purpose,
	})
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) RemoveTargetUniversity(ctx context.Context, userID uint, targetID string) (dto.StudentProfileResponse, error) {
	profile, err := s.loadOwn(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	kept := profile.TargetUniversities[:0]
	found := false
	for _, target := range profile.TargetUniversities {
		if target.ID == targetID {
			found = true
			continue
		}
		kept = append(kept, target)
	}
	if !found {
		return dto.StudentProfileResponse{}, ErrTargetNotFound
	}

	profile.TargetUniversities = kept
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) AddCertificate(ctx context.Context, userID uint, payload dto.CertificateRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	profile, err := s.loadOwn(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	if len(profile.Certificates) >= models.MaxCertificates {
		return dto.StudentProfileResponse{}, ErrCertificateLimit
	}

	// The referenced file must be a certificate uploaded for this profile.
	file, err := s.files.GetByID(ctx, payload.FileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrFileNotFound
		}
		return dto.StudentProfileResponse{}, err
	}
	if file.Type != models.FileTypeCertificate || file.StudentID == nil || *file.StudentID != profile.ID {
		return dto.StudentProfileResponse{}, ErrFileNotFound
	}

	profile.Certificates = append(profile.Certificates, models.CertificateRef{
		ID:      s.newID(),
		Type:    payload.Type,
		FileID:  payload.FileID,
		Comment: payload.Comment,
	})
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) RemoveCertificate(ctx context.Context, userID uint, certificateID string) (dto.StudentProfileResponse, error) {
	profile, err := s.loadOwn(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	kept := profile.Certificates[:0]
	found := false
	for _, cert := range profile.Certificates {
		if cert.ID == certificateID {
			found = true
			continue
		}
		kept = append(kept, cert)
	}
	if !found {
		return dto.StudentProfileResponse{}, ErrCertificateNotFound
	}

	profile.Certificates = kept
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile), nil
}

func (s *studentProfileService) loadOwn(ctx context.Context, userID uint) (models.StudentProfile, error) {
	profile, err := s.profiles.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrStudentProfileNotFound
		}
		return models.StudentProfile{}, err
	}
	return profile, nil
}
