package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
)

// listLimit caps list queries; the original UI never pages past this.
const listLimit = 100

// SubmissionFilter narrows submission queries. Nil fields are ignored.
type SubmissionFilter struct {
	StudentID *uint
	FacultyID *uint
	Status    *policy.Status
	IsActive  *bool
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	FindActivePair(ctx context.Context, studentID, facultyID uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.FacultyID != nil {
		query = query.Where("faculty_id = ?", *filter.FacultyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	isActive := true
	if filter.IsActive != nil {
		isActive = *filter.IsActive
	}
	query = query.Where("is_active = ?", isActive)

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Limit(listLimit).Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) FindActivePair(ctx context.Context, studentID, facultyID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("faculty_id = ?", facultyID).
		Where("is_active = ?", true).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
