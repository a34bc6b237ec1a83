package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/models"
)

type facultyProfileRepoStub struct {
	rows map[uint]models.FacultyProfile
}

func (s *facultyProfileRepoStub) GetByID(_ context.Context, id uint) (models.FacultyProfile, error) {
	p, ok := s.rows[id]
	if !ok {
		return models.FacultyProfile{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *facultyProfileRepoStub) FindActiveByUser(_ context.Context, userID uint) (models.FacultyProfile, error) {
	for _, p := range s.rows {
		if p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return models.FacultyProfile{}, gorm.ErrRecordNotFound
}

func (s *facultyProfileRepoStub) ListActive(_ context.Context) ([]models.FacultyProfile, error) {
	var out []models.FacultyProfile
	for _, p := range s.rows {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *facultyProfileRepoStub) Update(_ context.Context, profile *models.FacultyProfile) error {
	s.rows[profile.ID] = *profile
	return nil
}

func newFacultyProfileFixture(t *testing.T) (FacultyProfileService, *facultyProfileRepoStub) {
	t.Helper()
	repo := &facultyProfileRepoStub{rows: map[uint]models.FacultyProfile{
		2: {ID: 2, UserID: facultyUserID, FacultyCode: "FAC-002", Department: "CSE", Designation: "Assistant Professor", IsActive: true},
		3: {ID: 3, UserID: 21, FacultyCode: "FAC-003", Department: "ECE", Designation: "Professor", IsActive: false},
	}}
	return NewFacultyProfileService(repo, validator.New(), zerolog.Nop()), repo
}

func TestFacultyGetOwn(t *testing.T) {
	svc, _ := newFacultyProfileFixture(t)

	got, err := svc.GetOwn(context.Background(), facultyUserID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-002", got.FacultyCode)

	_, err = svc.GetOwn(context.Background(), otherUserID)
	assert.ErrorIs(t, err, ErrFacultyProfileNotFound)
}

func TestFacultyUpdateOwn(t *testing.T) {
	svc, repo := newFacultyProfileFixture(t)

	got, err := svc.UpdateOwn(context.Background(), facultyUserID, dto.FacultyUpdateRequest{Designation: "Associate Professor"})
	require.NoError(t, err)
	assert.Equal(t, "Associate Professor", got.Designation)
	assert.Equal(t, "Associate Professor", repo.rows[2].Designation)

	_, err = svc.UpdateOwn(context.Background(), facultyUserID, dto.FacultyUpdateRequest{})
	assert.Error(t, err)
}

func TestFacultyListDirectory(t *testing.T) {
	svc, _ := newFacultyProfileFixture(t)

	entries, err := svc.ListDirectory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "FAC-002", entries[0].FacultyCode)
}
