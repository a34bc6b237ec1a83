package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
)

// DirectoryService resolves between global user identity and role-scoped
// profile identity. Authorization always compares user ids, while domain
// records reference profile ids, so every ownership check needs this one hop
// of indirection.
type DirectoryService interface {
	ResolveStudentOwner(ctx context.Context, studentProfileID uint) (uint, error)
	ResolveFacultyOwner(ctx context.Context, facultyProfileID uint) (uint, error)
	FindActiveStudentProfile(ctx context.Context, userID uint) (models.StudentProfile, error)
	FindActiveFacultyProfile(ctx context.Context, userID uint) (models.FacultyProfile, error)
	FindActiveFacultyProfileByID(ctx context.Context, facultyProfileID uint) (models.FacultyProfile, error)
	UserEmail(ctx context.Context, userID uint) (string, error)
}

type directoryService struct {
	students repository.StudentProfileRepository
	faculty  repository.FacultyProfileRepository
	users    repository.UserRepository
}

// NewDirectoryService constructs the profile directory.
func NewDirectoryService(students repository.StudentProfileRepository, faculty repository.FacultyProfileRepository, users repository.UserRepository) DirectoryService {
	return &directoryService{students: students, faculty: faculty, users: users}
}

func (s *directoryService) ResolveStudentOwner(ctx context.Context, studentProfileID uint) (uint, error) {
	profile, err := s.students.GetByID(ctx, studentProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrStudentProfileNotFound
		}
		return 0, err
	}
	return profile.UserID, nil
}

func (s *directoryService) ResolveFacultyOwner(ctx context.Context, facultyProfileID uint) (uint, error) {
	profile, err := s.faculty.GetByID(ctx, facultyProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrFacultyProfileNotFound
		}
		return 0, err
	}
	return profile.UserID, nil
}

func (s *directoryService) FindActiveStudentProfile(ctx context.Context, userID uint) (models.StudentProfile, error) {
	profile, err := s.students.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrStudentProfileNotFound
		}
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (s *directoryService) FindActiveFacultyProfile(ctx context.Context, userID uint) (models.FacultyProfile, error) {
	profile, err := s.faculty.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FacultyProfile{}, ErrFacultyProfileNotFound
		}
		return models.FacultyProfile{}, err
	}
	return profile, nil
}

func (s *directoryService) FindActiveFacultyProfileByID(ctx context.Context, facultyProfileID uint) (models.FacultyProfile, error) {
	profile, err := s.faculty.GetByID(ctx, facultyProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FacultyProfile{}, ErrFacultyProfileNotFound
		}
		return models.FacultyProfile{}, err
	}
	if !profile.IsActive {
		return models.FacultyProfile{}, ErrInactiveFaculty
	}
	return profile, nil
}

func (s *directoryService) UserEmail(ctx context.Context, userID uint) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}
