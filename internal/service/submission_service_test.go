package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
)

type submissionRepoStub struct {
	rows   map[uint]models.Submission
	nextID uint
}

func newSubmissionRepoStub() *submissionRepoStub {
	return &submissionRepoStub{rows: map[uint]models.Submission{}, nextID: 1}
}

func (s *submissionRepoStub) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	isActive := true
	if filter.IsActive != nil {
		isActive = *filter.IsActive
	}

	var out []models.Submission
	for _, row := range s.rows {
		if row.IsActive != isActive {
			continue
		}
		if filter.StudentID != nil && row.StudentID != *filter.StudentID {
			continue
		}
		if filter.FacultyID != nil && row.FacultyID != *filter.FacultyID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *submissionRepoStub) GetByID(_ context.Context, id uint) (models.Submission, error) {
	row, ok := s.rows[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *submissionRepoStub) FindActivePair(_ context.Context, studentID, facultyID uint) (models.Submission, error) {
	for _, row := range s.rows {
		if row.IsActive && row.StudentID == studentID && row.FacultyID == facultyID {
			return row, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (s *submissionRepoStub) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = s.nextID
	s.nextID++
	s.rows[submission.ID] = *submission
	return nil
}

func (s *submissionRepoStub) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := s.rows[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.rows[submission.ID] = *submission
	return nil
}

type directoryStub struct {
	students map[uint]models.StudentProfile // keyed by user id
	faculty  map[uint]models.FacultyProfile // keyed by profile id
}

func (d *directoryStub) ResolveStudentOwner(_ context.Context, studentProfileID uint) (uint, error) {
	for _, p := range d.students {
		if p.ID == studentProfileID {
			return p.UserID, nil
		}
	}
	return 0, ErrStudentProfileNotFound
}

func (d *directoryStub) ResolveFacultyOwner(_ context.Context, facultyProfileID uint) (uint, error) {
	p, ok := d.faculty[facultyProfileID]
	if !ok {
		return 0, ErrFacultyProfileNotFound
	}
	return p.UserID, nil
}

func (d *directoryStub) FindActiveStudentProfile(_ context.Context, userID uint) (models.StudentProfile, error) {
	p, ok := d.students[userID]
	if !ok || !p.IsActive {
		return models.StudentProfile{}, ErrStudentProfileNotFound
	}
	return p, nil
}

func (d *directoryStub) FindActiveFacultyProfile(_ context.Context, userID uint) (models.FacultyProfile, error) {
	for _, p := range d.faculty {
		if p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return models.FacultyProfile{}, ErrFacultyProfileNotFound
}

func (d *directoryStub) FindActiveFacultyProfileByID(_ context.Context, facultyProfileID uint) (models.FacultyProfile, error) {
	p, ok := d.faculty[facultyProfileID]
	if !ok {
		return models.FacultyProfile{}, ErrFacultyProfileNotFound
	}
	if !p.IsActive {
		return models.FacultyProfile{}, ErrInactiveFaculty
	}
	return p, nil
}

func (d *directoryStub) UserEmail(_ context.Context, userID uint) (string, error) {
	return "user@example.edu", nil
}

type notifierStub struct {
	events []LifecycleEvent
}

func (n *notifierStub) NotifyLifecycle(_ context.Context, event LifecycleEvent) {
	n.events = append(n.events, event)
}

const (
	studentUserID = uint(10)
	facultyUserID = uint(20)
	otherUserID   = uint(99)
)

func newLifecycleFixture(t *testing.T) (*submissionService, *submissionRepoStub, *notifierStub) {
	t.Helper()

	repo := newSubmissionRepoStub()
	notifier := &notifierStub{}
	directory := &directoryStub{
		students: map[uint]models.StudentProfile{
			studentUserID: {ID: 1, UserID: studentUserID, IsActive: true},
		},
		faculty: map[uint]models.FacultyProfile{
			2: {ID: 2, UserID: facultyUserID, IsActive: true},
			3: {ID: 3, UserID: 21, IsActive: false},
		},
	}

	svc := NewSubmissionService(repo, directory, notifier, validator.New(), zerolog.Nop()).(*submissionService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, notifier
}

func futureDeadline() time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
}

func createFixtureSubmission(t *testing.T, svc *submissionService) dto.SubmissionDetail {
	t.Helper()
	detail, err := svc.Create(context.Background(), studentUserID, policy.RoleStudent, dto.SubmissionCreateRequest{
		FacultyID:      2,
		Deadline:       futureDeadline(),
		UniversityName: "MIT",
		Purpose:        "MS application",
	})
	require.NoError(t, err)
	return detail
}

func TestSubmissionCreate(t *testing.T) {
	svc, repo, notifier := newLifecycleFixture(t)

	detail := createFixtureSubmission(t, svc)

	assert.Equal(t, policy.StatusSubmitted, detail.Status)
	assert.Equal(t, 1, detail.CurrentVersion)
	require.Len(t, detail.AuditLog, 1)
	assert.Nil(t, detail.AuditLog[0].FromStatus)
	assert.Equal(t, policy.StatusSubmitted, detail.AuditLog[0].ToStatus)
	assert.Equal(t, studentUserID, detail.AuditLog[0].ActorID)

	stored := repo.rows[detail.ID]
	assert.True(t, stored.IsActive)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.NotificationSubmissionReceived, notifier.events[0].Type)
	assert.Equal(t, facultyUserID, notifier.events[0].RecipientUserID)
}

func TestSubmissionCreateRejections(t *testing.T) {
	svc, _, _ := newLifecycleFixture(t)
	ctx := context.Background()

	t.Run("faculty cannot create", func(t *testing.T) {
		_, err := svc.Create(ctx, facultyUserID, policy.RoleFaculty, dto.SubmissionCreateRequest{
			FacultyID: 2, Deadline: futureDeadline(),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("past deadline", func(t *testing.T) {
		_, err := svc.Create(ctx, studentUserID, policy.RoleStudent, dto.SubmissionCreateRequest{
			FacultyID: 2, Deadline: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrDeadlinePast)
	})

	t.Run("inactive faculty", func(t *testing.T) {
		_, err := svc.Create(ctx, studentUserID, policy.RoleStudent, dto.SubmissionCreateRequest{
			FacultyID: 3, Deadline: futureDeadline(),
		})
		assert.ErrorIs(t, err, ErrInactiveFaculty)
	})

	t.Run("unknown faculty", func(t *testing.T) {
		_, err := svc.Create(ctx, studentUserID, policy.RoleStudent, dto.SubmissionCreateRequest{
			FacultyID: 404, Deadline: futureDeadline(),
		})
		assert.ErrorIs(t, err, ErrInactiveFaculty)
	})

	t.Run("no student profile", func(t *testing.T) {
		_, err := svc.Create(ctx, otherUserID, policy.RoleStudent, dto.SubmissionCreateRequest{
			FacultyID: 2, Deadline: futureDeadline(),
		})
		assert.ErrorIs(t, err, ErrStudentProfileNotFound)
	})

	t.Run("duplicate active pair", func(t *testing.T) {
		createFixtureSubmission(t, svc)
		_, err := svc.Create(ctx, studentUserID, policy.RoleStudent, dto.SubmissionCreateRequest{
			FacultyID: 2, Deadline: futureDeadline(),
		})
		assert.ErrorIs(t, err, ErrDuplicateActivePair)
	})
}

func TestSubmissionUpdateStatusFlow(t *testing.T) {
	svc, _, notifier := newLifecycleFixture(t)
	ctx := context.Background()

	detail := createFixtureSubmission(t, svc)
	notifier.events = nil

	// Faculty requests changes.
	updated, err := svc.UpdateStatus(ctx, detail.ID, facultyUserID, policy.RoleFaculty, dto.SubmissionStatusRequest{
		NewStatus: policy.StatusResubmission,
		Remark:    "please expand section two",
	})
	require.NoError(t, err)
	assert.Equal(t, policy.StatusResubmission, updated.Status)
	assert.Equal(t, 1, updated.CurrentVersion)
	require.Len(t, updated.AuditLog, 2)
	assert.Equal(t, "please expand section two", updated.AuditLog[1].Remark)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.NotificationResubmissionRequested, notifier.events[0].Type)
	assert.Equal(t, studentUserID, notifier.events[0].RecipientUserID)

	// Student resubmits; version increments exactly here.
	updated, err = svc.UpdateStatus(ctx, detail.ID, studentUserID, policy.RoleStudent, dto.SubmissionStatusRequest{
		NewStatus: policy.StatusSubmitted,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentVersion)

	// Faculty approves, then completes.
	updated, err = svc.UpdateStatus(ctx, detail.ID, facultyUserID, policy.RoleFaculty, dto.SubmissionStatusRequest{
		NewStatus: policy.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, policy.StatusApproved, updated.Status)
	assert.Equal(t, 2, updated.CurrentVersion)

	updated, err = svc.UpdateStatus(ctx, detail.ID, facultyUserID, policy.RoleFaculty, dto.SubmissionStatusRequest{
		NewStatus: policy.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, policy.StatusCompleted, updated.Status)
	require.Len(t, updated.AuditLog, 5)
}

func TestSubmissionUpdateStatusRejections(t *testing.T) {
	svc, _, _ := newLifecycleFixture(t)
	ctx := context.Background()

	detail := createFixtureSubmission(t, svc)

	t.Run("student cannot approve", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, detail.ID, studentUserID, policy.RoleStudent, dto.SubmissionStatusRequest{
			NewStatus: policy.StatusApproved,
		})
		var terr *policy.TransitionError
		require.ErrorAs(t, err, &terr)
	})

	t.Run("unassigned faculty denied", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, detail.ID, otherUserID, policy.RoleFaculty, dto.SubmissionStatusRequest{
			NewStatus: policy.StatusApproved,
		})
		var terr *policy.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Contains(t, terr.Reason, "assigned")
	})

	t.Run("unknown submission", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, 404, facultyUserID, policy.RoleFaculty, dto.SubmissionStatusRequest{
			NewStatus: policy.StatusApproved,
		})
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})
}

func TestSubmissionList(t *testing.T) {
	svc, _, _ := newLifecycleFixture(t)
	ctx := context.Background()

	createFixtureSubmission(t, svc)

	t.Run("student sees own", func(t *testing.T) {
		items, err := svc.List(ctx, studentUserID, policy.RoleStudent, dto.SubmissionFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("assigned faculty sees it", func(t *testing.T) {
		items, err := svc.List(ctx, facultyUserID, policy.RoleFaculty, dto.SubmissionFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("admin sees all", func(t *testing.T) {
		items, err := svc.List(ctx, otherUserID, policy.RoleAdmin, dto.SubmissionFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("status filter", func(t *testing.T) {
		approved := policy.StatusApproved
		items, err := svc.List(ctx, studentUserID, policy.RoleStudent, dto.SubmissionFilter{Status: &approved})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.List(ctx, studentUserID, policy.Role("ghost"), dto.SubmissionFilter{})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestSubmissionGetByID(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(t)
	ctx := context.Background()

	detail := createFixtureSubmission(t, svc)

	got, err := svc.GetByID(ctx, detail.ID, studentUserID, policy.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, detail.ID, got.ID)

	_, err = svc.GetByID(ctx, detail.ID, facultyUserID, policy.RoleFaculty)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, detail.ID, otherUserID, policy.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, detail.ID, otherUserID, policy.RoleFaculty)
	assert.ErrorIs(t, err, ErrForbidden)

	// Soft-deleted rows read as absent.
	row := repo.rows[detail.ID]
	row.IsActive = false
	repo.rows[detail.ID] = row
	_, err = svc.GetByID(ctx, detail.ID, studentUserID, policy.RoleStudent)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionDelete(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(t)
	ctx := context.Background()

	t.Run("owner soft-deletes and pair frees up", func(t *testing.T) {
		detail := createFixtureSubmission(t, svc)

		require.NoError(t, svc.Delete(ctx, detail.ID, studentUserID, policy.RoleStudent))
		assert.False(t, repo.rows[detail.ID].IsActive)

		// The pair can open a fresh submission afterwards.
		createFixtureSubmission(t, svc)
	})

	t.Run("faculty cannot delete", func(t *testing.T) {
		detail := createFixtureSubmission(t, svc)
		t.Cleanup(func() { _ = svc.Delete(ctx, detail.ID, studentUserID, policy.RoleStudent) })

		err := svc.Delete(ctx, detail.ID, facultyUserID, policy.RoleFaculty)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestSubmissionDeleteBlockedAfterApproval(t *testing.T) {
	svc, _, _ := newLifecycleFixture(t)
	ctx := context.Background()

	detail := createFixtureSubmission(t, svc)
	_, err := svc.UpdateStatus(ctx, detail.ID, facultyUserID, policy.RoleFaculty, dto.SubmissionStatusRequest{
		NewStatus: policy.StatusApproved,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, detail.ID, studentUserID, policy.RoleStudent)
	assert.ErrorIs(t, err, ErrUndeletableStatus)
}

func TestAlignDraftVersion(t *testing.T) {
	svc, repo, _ := newLifecycleFixture(t)
	ctx := context.Background()

	detail := createFixtureSubmission(t, svc)

	require.NoError(t, svc.AlignDraftVersion(ctx, detail.ID, 3))
	assert.Equal(t, 3, repo.rows[detail.ID].CurrentVersion)

	// Never moves backwards.
	require.NoError(t, svc.AlignDraftVersion(ctx, detail.ID, 2))
	assert.Equal(t, 3, repo.rows[detail.ID].CurrentVersion)
}
