package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/observability"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
)

// LifecycleEvent describes one submission lifecycle change for the
// notification path. RecipientUserID is the counterpart party to inform.
type LifecycleEvent struct {
	Type            string        `json:"type"`
	SubmissionID    uint          `json:"submission_id"`
	NewStatus       policy.Status `json:"new_status"`
	RecipientUserID uint          `json:"recipient_user_id"`
	ActorUserID     uint          `json:"actor_user_id"`
	Remark          string        `json:"remark,omitempty"`
	Deadline        time.Time     `json:"deadline"`
}

// LifecycleNotifier receives lifecycle events. Implementations never return
// an error and never block the caller beyond a queue handoff: a broken
// transport must not fail a status update.
type LifecycleNotifier interface {
	NotifyLifecycle(ctx context.Context, event LifecycleEvent)
}

// SubmissionService orchestrates the LoR submission lifecycle.
type SubmissionService interface {
	Create(ctx context.Context, actorUserID uint, actorRole policy.Role, payload dto.SubmissionCreateRequest) (dto.SubmissionDetail, error)
	List(ctx context.Context, actorUserID uint, actorRole policy.Role, filter dto.SubmissionFilter) ([]dto.SubmissionListItem, error)
	GetByID(ctx context.Context, id uint, actorUserID uint, actorRole policy.Role) (dto.SubmissionDetail, error)
	UpdateStatus(ctx context.Context, id uint, actorUserID uint, actorRole policy.Role, payload dto.SubmissionStatusRequest) (dto.SubmissionDetail, error)
	Delete(ctx context.Context, id uint, actorUserID uint, actorRole policy.Role) error

	// AlignDraftVersion raises the submission's current version to the
	// given draft version. Version mutation is owned here exclusively; the
	// file module reports attachments instead of writing the field itself.
	AlignDraftVersion(ctx context.Context, id uint, draftVersion int) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	directory   DirectoryService
	notifier    LifecycleNotifier
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(repo repository.SubmissionRepository, directory DirectoryService, notifier LifecycleNotifier, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: repo,
		directory:   directory,
		notifier:    notifier,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/lor-tracker-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, actorUserID uint, actorRole policy.Role, payload dto.SubmissionCreateRequest) (dto.SubmissionDetail, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionDetail{}, err
	}

	if actorRole != policy.RoleStudent && actorRole != policy.RoleAlumni {
		return dto.SubmissionDetail{}, ErrForbidden
	}

	now := s.now()
	if !payload.Deadline.After(now) {
		return dto.SubmissionDetail{}, ErrDeadlinePast
	}

	studentProfile, err := s.directory.FindActiveStudentProfile(ctx, actorUserID)
	if err != nil {
		return dto.SubmissionDetail{}, err
	}

	faculty, err := s.directory.FindActiveFacultyProfileByID(ctx, payload.FacultyID)
	if err != nil {
		// A nonexistent target reads the same as an inactive one: the
		// client picked a faculty that cannot receive requests.
		if errors.Is(err, ErrFacultyProfileNotFound) {
			err = ErrInactiveFaculty
		}
		return dto.SubmissionDetail{}, err
	}

	// Pre-check for an active pair; the partial unique index backstops the
	// race where two creates slip past this read.
	if _, err := s.submissions.FindActivePair(ctx, studentProfile.ID, faculty.ID); err == nil {
		return dto.SubmissionDetail{}, ErrDuplicateActivePair
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionDetail{}, err
	}

	ctx, span := s.tracer.Start(ctx, "submissions.create", trace.WithAttributes(
		attribute.Int("submission.student_profile", int(studentProfile.ID)),
		attribute.Int("submission.faculty_profile", int(faculty.ID)),
	))
	defer span.End()

	submission := models.Submission{
		StudentID:      studentProfile.ID,
		FacultyID:      faculty.ID,
		Status:         policy.StatusSubmitted,
		Deadline:       payload.Deadline,
		UniversityName: payload.UniversityName,
		Purpose:        payload.Purpose,
		IsAlumni:       studentProfile.IsAlumni,
		CurrentVersion: 1,
		AuditLog:       []policy.AuditEntry{policy.GenesisEntry(actorUserID, now)},
		IsActive:       true,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionDetail{}, ErrDuplicateActivePair
		}
		return dto.SubmissionDetail{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("student_profile", studentProfile.ID).
		Uint("faculty_profile", faculty.ID).
		Msg("submission created")

	s.notifier.NotifyLifecycle(ctx, LifecycleEvent{
		Type:            models.NotificationSubmissionReceived,
		SubmissionID:    submission.ID,
		NewStatus:       policy.StatusSubmitted,
		RecipientUserID: faculty.UserID,
		ActorUserID:     actorUserID,
		Deadline:        submission.Deadline,
	})

	return dto.NewSubmissionDetail(submission), nil
}

func (s *submissionService) List(ctx context.Context, actorUserID uint, actorRole policy.Role, filter dto.SubmissionFilter) ([]dto.SubmissionListItem, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		Status:   filter.Status,
		IsActive: filter.IsActive,
	}

	switch actorRole {
	case policy.RoleStudent, policy.RoleAlumni:
		profile, err := s.directory.FindActiveStudentProfile(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		repoFilter.StudentID = &profile.ID

	case policy.RoleFaculty:
		profile, err := s.directory.FindActiveFacultyProfile(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		repoFilter.FacultyID = &profile.ID

	case policy.RoleAdmin:
		// Admin sees all.

	default:
		return nil, ErrInvalidRole
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionListItemSlice(submissions), nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint, actorUserID uint, actorRole policy.Role) (dto.SubmissionDetail, error) {
	submission, err := s.loadActive(ctx, id)
	if err != nil {
		return dto.SubmissionDetail{}, err
	}

	if actorRole != policy.RoleAdmin {
		studentUserID, facultyUserID, err := s.resolveOwners(ctx, submission)
		if err != nil {
			return dto.SubmissionDetail{}, err
		}

		isOwner := ((actorRole == policy.RoleStudent || actorRole == policy.RoleAlumni) && actorUserID == studentUserID) ||
			(actorRole == policy.RoleFaculty && actorUserID == facultyUserID)
		if !isOwner {
			return dto.SubmissionDetail{}, ErrForbidden
		}
	}

	return dto.NewSubmissionDetail(submission), nil
}

func (s *submissionService) UpdateStatus(ctx context.Context, id uint, actorUserID uint, actorRole policy.Role, payload dto.SubmissionStatusRequest) (dto.SubmissionDetail, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionDetail{}, err
	}

	submission, err := s.loadActive(ctx, id)
	if err != nil {
		return dto.SubmissionDetail{}, err
	}

	studentUserID, facultyUserID, err := s.resolveOwners(ctx, submission)
	if err != nil {
		return dto.SubmissionDetail{}, err
	}

	ctx, span := s.tracer.Start(ctx, "submissions.update_status", trace.WithAttributes(
		attribute.Int("submission.id", int(id)),
		attribute.String("submission.from", string(submission.Status)),
		attribute.String("submission.to", string(payload.NewStatus)),
	))
	defer span.End()

	entry, err := policy.Decide(policy.Request{
		CurrentStatus: submission.Status,
		NewStatus:     payload.NewStatus,
		ActorRole:     actorRole,
		ActorUserID:   actorUserID,
		StudentUserID: studentUserID,
		FacultyUserID: facultyUserID,
		Remark:        payload.Remark,
	}, s.now())
	if err != nil {
		observability.TransitionsRejected().
			WithLabelValues(string(submission.Status), string(payload.NewStatus)).Inc()
		span.RecordError(err)
		return dto.SubmissionDetail{}, err
	}

	oldStatus := submission.Status
	submission.Status = payload.NewStatus
	if policy.IsResubmit(oldStatus, payload.NewStatus) {
		submission.CurrentVersion++
	}
	submission.AuditLog = append(submission.AuditLog, entry)

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		return dto.SubmissionDetail{}, err
	}

	observability.Transitions().
		WithLabelValues(string(oldStatus), string(payload.NewStatus)).Inc()

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("from", string(oldStatus)).
		Str("to", string(payload.NewStatus)).
		Int("version", submission.CurrentVersion).
		Msg("submission status updated")

	if event, ok := statusChangeEvent(submission, payload.NewStatus, payload.Remark, actorUserID, studentUserID); ok {
		s.notifier.NotifyLifecycle(ctx, event)
	}

	return dto.NewSubmissionDetail(submission), nil
}

func (s *submissionService) Delete(ctx context.Context, id uint, actorUserID uint, actorRole policy.Role) error {
	if actorRole != policy.RoleStudent && actorRole != policy.RoleAlumni {
		return ErrForbidden
	}

	submission, err := s.loadActive(ctx, id)
	if err != nil {
		return err
	}

	studentUserID, _, err := s.resolveOwners(ctx, submission)
	if err != nil {
		return err
	}
	if actorUserID != studentUserID {
		return ErrForbidden
	}

	if !submission.Deletable() {
		return ErrUndeletableStatus
	}

	// Soft delete frees the (student, faculty) pair for a new active
	// submission while keeping the row for history.
	submission.IsActive = false
	if err := s.submissions.Update(ctx, &submission); err != nil {
		return err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission soft-deleted")
	return nil
}

func (s *submissionService) AlignDraftVersion(ctx context.Context, id uint, draftVersion int) error {
	submission, err := s.loadActive(ctx, id)
	if err != nil {
		return err
	}

	// Versions only ever move forward.
	if draftVersion <= submission.CurrentVersion {
		return nil
	}

	submission.CurrentVersion = draftVersion
	return s.submissions.Update(ctx, &submission)
}

func (s *submissionService) loadActive(ctx context.Context, id uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}
	if !submission.IsActive {
		return models.Submission{}, ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *submissionService) resolveOwners(ctx context.Context, submission models.Submission) (uint, uint, error) {
	studentUserID, err := s.directory.ResolveStudentOwner(ctx, submission.StudentID)
	if err != nil {
		return 0, 0, err
	}
	facultyUserID, err := s.directory.ResolveFacultyOwner(ctx, submission.FacultyID)
	if err != nil {
		return 0, 0, err
	}
	return studentUserID, facultyUserID, nil
}

// statusChangeEvent maps an accepted transition to the notification sent to
// the student. Student-initiated resubmits carry no counterpart notification
// here; faculty learn about new versions from the draft upload itself.
func statusChangeEvent(submission models.Submission, newStatus policy.Status, remark string, actorUserID, studentUserID uint) (LifecycleEvent, bool) {
	var eventType string
	switch newStatus {
	case policy.StatusResubmission:
		eventType = models.NotificationResubmissionRequested
	case policy.StatusRejected:
		eventType = models.NotificationSubmissionRejected
	case policy.StatusApproved:
		eventType = models.NotificationDraftApproved
	case policy.StatusCompleted:
		eventType = models.NotificationLoRCompleted
	default:
		return LifecycleEvent{}, false
	}

	return LifecycleEvent{
		Type:            eventType,
		SubmissionID:    submission.ID,
		NewStatus:       newStatus,
		RecipientUserID: studentUserID,
		ActorUserID:     actorUserID,
		Remark:          remark,
		Deadline:        submission.Deadline,
	}, true
}
