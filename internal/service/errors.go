package service

import "errors"

// Lookup failures. Soft-deleted records surface the same way as absent ones.
var (
	// ErrSubmissionNotFound indicates a submission is absent or soft-deleted.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrStudentProfileNotFound indicates the caller has no active student profile.
	ErrStudentProfileNotFound = errors.New("student profile not found")
	// ErrFacultyProfileNotFound indicates the caller has no active faculty profile.
	ErrFacultyProfileNotFound = errors.New("faculty profile not found")
	// ErrFileNotFound indicates an attachment is absent.
	ErrFileNotFound = errors.New("file not found")
	// ErrNotificationNotFound indicates the notification is absent or not the caller's.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrTargetNotFound indicates an unknown target-university entry id.
	ErrTargetNotFound = errors.New("target university not found")
	// ErrCertificateNotFound indicates an unknown certificate entry id.
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Authorization failures.
var (
	// ErrForbidden indicates the authenticated caller may not perform the operation.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidRole indicates the principal carries a role outside the closed set.
	ErrInvalidRole = errors.New("invalid role")
)

// Business-rule violations, all surfaced as BadRequest.
var (
	// ErrDeadlinePast indicates a submission deadline that is not strictly future.
	ErrDeadlinePast = errors.New("deadline must be in the future")
	// ErrInactiveFaculty indicates the target faculty profile is missing or inactive.
	ErrInactiveFaculty = errors.New("invalid or inactive faculty")
	// ErrDuplicateActivePair indicates an active submission already exists for the pair.
	ErrDuplicateActivePair = errors.New("active submission already exists with this faculty; complete or delete the existing submission first")
	// ErrUndeletableStatus indicates a soft delete on an approved or completed submission.
	ErrUndeletableStatus = errors.New("cannot delete approved or completed submissions")
	// ErrDraftNotAllowed indicates a draft upload outside submitted/resubmission.
	ErrDraftNotAllowed = errors.New("drafts can only be uploaded while the submission is in submitted or resubmission status")
	// ErrFinalNotAllowed indicates a final upload while the submission is not approved.
	ErrFinalNotAllowed = errors.New("final letter can only be uploaded for an approved submission")
	// ErrFinalAlreadyUploaded indicates a second final upload for the same submission.
	ErrFinalAlreadyUploaded = errors.New("final letter already uploaded for this submission; delete the existing one first")
	// ErrTargetLimit indicates the bounded target-university list is full.
	ErrTargetLimit = errors.New("maximum 5 target universities allowed")
	// ErrCertificateLimit indicates the bounded certificate list is full.
	ErrCertificateLimit = errors.New("maximum 5 certificates allowed")
	// ErrEmploymentFields indicates missing conditional employment fields.
	ErrEmploymentFields = errors.New("missing required employment fields for the chosen status")
	// ErrFileTooLarge indicates an upload above the configured size cap.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
	// ErrUnsupportedFileType indicates a sniffed content type outside the allow-list.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
