package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/models"
)

// FileRepository handles the attachment registry. Rows are immutable: there
// is no update operation.
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uint) (models.File, error)
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.File, error)
	MaxDraftVersion(ctx context.Context, submissionID uint) (int, error)
	FinalExists(ctx context.Context, submissionID uint) (bool, error)
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository constructs a repository backed by GORM.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id uint) (models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return models.File{}, err
	}
	return file, nil
}

func (r *fileRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.File, error) {
	var files []models.File
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("type ASC, version DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) MaxDraftVersion(ctx context.Context, submissionID uint) (int, error) {
	var file models.File
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND type = ?", submissionID, models.FileTypeDraft).
		Order("version DESC").
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return file.Version, nil
}

func (r *fileRepository) FinalExists(ctx context.Context, submissionID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.File{}).
		Where("submission_id = ? AND type = ?", submissionID, models.FileTypeFinal).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
