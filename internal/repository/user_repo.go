package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/models"
)

// UserRepository reads global user identities. Users are created by the
// registration flow outside this service; the tracker only ever reads them.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a repository backed by GORM.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}
