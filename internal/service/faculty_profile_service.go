package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
)

// FacultyProfileService manages faculty profiles and the public directory
// students pick recipients from.
type FacultyProfileService interface {
	GetOwn(ctx context.Context, userID uint) (dto.FacultyProfileResponse, error)
	UpdateOwn(ctx context.Context, userID uint, payload dto.FacultyUpdateRequest) (dto.FacultyProfileResponse, error)
	ListDirectory(ctx context.Context) ([]dto.FacultyDirectoryEntry, error)
}

type facultyProfileService struct {
	profiles  repository.FacultyProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFacultyProfileService constructs a FacultyProfileService.
func NewFacultyProfileService(profiles repository.FacultyProfileRepository, validate *validator.Validate, logger zerolog.Logger) FacultyProfileService {
	return &facultyProfileService{
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "faculty_profile_service").Logger(),
	}
}

func (s *facultyProfileService) GetOwn(ctx context.Context, userID uint) (dto.FacultyProfileResponse, error) {
	profile, err := s.profiles.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FacultyProfileResponse{}, ErrFacultyProfileNotFound
		}
		return dto.FacultyProfileResponse{}, err
	}
	return dto.NewFacultyProfileResponse(profile), nil
}

func (s *facultyProfileService) UpdateOwn(ctx context.Context, userID uint, payload dto.FacultyUpdateRequest) (dto.FacultyProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyProfileResponse{}, err
	}

	profile, err := s.profiles.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FacultyProfileResponse{}, ErrFacultyProfileNotFound
		}
		return dto.FacultyProfileResponse{}, err
	}

	profile.Designation = payload.Designation
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.FacultyProfileResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Msg("faculty profile updated")
	return dto.NewFacultyProfileResponse(profile), nil
}

func (s *facultyProfileService) ListDirectory(ctx context.Context) ([]dto.FacultyDirectoryEntry, error) {
	profiles, err := s.profiles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewFacultyDirectorySlice(profiles), nil
}
