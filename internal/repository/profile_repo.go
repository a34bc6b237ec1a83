package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/models"
)

// StudentProfileRepository handles persistence for student profiles.
type StudentProfileRepository interface {
	GetByID(ctx context.Context, id uint) (models.StudentProfile, error)
	FindActiveByUser(ctx context.Context, userID uint) (models.StudentProfile, error)
	Update(ctx context.Context, profile *models.StudentProfile) error
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository constructs a repository backed by GORM.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) GetByID(ctx context.Context, id uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *studentProfileRepository) FindActiveByUser(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *studentProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// FacultyProfileRepository handles persistence for faculty profiles.
type FacultyProfileRepository interface {
	GetByID(ctx context.Context, id uint) (models.FacultyProfile, error)
	FindActiveByUser(ctx context.Context, userID uint) (models.FacultyProfile, error)
	ListActive(ctx context.Context) ([]models.FacultyProfile, error)
	Update(ctx context.Context, profile *models.FacultyProfile) error
}

type facultyProfileRepository struct {
	db *gorm.DB
}

// NewFacultyProfileRepository constructs a repository backed by GORM.
func NewFacultyProfileRepository(db *gorm.DB) FacultyProfileRepository {
	return &facultyProfileRepository{db: db}
}

func (r *facultyProfileRepository) GetByID(ctx context.Context, id uint) (models.FacultyProfile, error) {
	var profile models.FacultyProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return models.FacultyProfile{}, err
	}
	return profile, nil
}

func (r *facultyProfileRepository) FindActiveByUser(ctx context.Context, userID uint) (models.FacultyProfile, error) {
	var profile models.FacultyProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&profile).Error; err != nil {
		return models.FacultyProfile{}, err
	}
	return profile, nil
}

func (r *facultyProfileRepository) ListActive(ctx context.Context) ([]models.FacultyProfile, error) {
	var profiles []models.FacultyProfile
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("faculty_code ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *facultyProfileRepository) Update(ctx context.Context, profile *models.FacultyProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
