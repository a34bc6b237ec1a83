package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lor-tracker-api/internal/dto"
	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/observability"
	"github.com/noah-isme/lor-tracker-api/internal/policy"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
	"github.com/noah-isme/lor-tracker-api/pkg/storage"
)

// finalRemark is the audit remark recorded when a final upload completes the
// submission.
const finalRemark = "Final LoR uploaded"

// Content types accepted per file kind. The type is sniffed from the bytes,
// never trusted from the request.
var (
	documentMimes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	certificateMimes = []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
	}
)

// Upload is one incoming attachment.
type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// DownloadResult couples file metadata with its blob stream. The caller owns
// closing Content.
type DownloadResult struct {
	File    dto.FileResponse
	Content io.ReadCloser
}

// FileService handles attachment uploads and downloads around the
// submission lifecycle.
type FileService interface {
	UploadDraft(ctx context.Context, submissionID uint, actorUserID uint, actorRole policy.Role, upload Upload) (dto.FileResponse, error)
	UploadFinal(ctx context.Context, submissionID uint, actorUserID uint, actorRole policy.Role, upload Upload) (dto.FileResponse, error)
	UploadCertificate(ctx context.Context, actorUserID uint, actorRole policy.Role, upload Upload) (dto.FileResponse, error)
	ListForSubmission(ctx context.Context, submissionID uint, actorUserID uint, actorRole policy.Role) ([]dto.FileResponse, error)
	Download(ctx context.Context, fileID uint, actorUserID uint, actorRole policy.Role) (DownloadResult, error)
}

type fileService struct {
	files       repository.FileRepository
	submissions SubmissionService
	directory   DirectoryService
	store       storage.FileStorage
	logger      zerolog.Logger
	maxBytes    int64
}

// NewFileService constructs a FileService. maxBytes caps a single upload.
func NewFileService(files repository.FileRepository, submissions SubmissionService, directory DirectoryService, store storage.FileStorage, logger zerolog.Logger, maxBytes int64) FileService {
	return &fileService{
		files:       files,
		submissions: submissions,
		directory:   directory,
		store:       store,
		logger:      logger.With().Str("component", "file_service").Logger(),
		maxBytes:    maxBytes,
	}
}

func (s *fileService) UploadDraft(ctx context.Context, submissionID uint, actorUserID uint, actorRole policy.Role, upload Upload) (dto.FileResponse, error) {
	if actorRole != policy.RoleStudent && actorRole != policy.RoleAlumni {
		return dto.FileResponse{}, ErrForbidden
	}

	// GetByID enforces ownership for the student actor.
	submission, err := s.submissions.GetByID(ctx, submissionID, actorUserID, actorRole)
	if err != nil {
		return dto.FileResponse{}, err
	}
	if submission.Status != policy.StatusSubmitted && submission.Status != policy.StatusResubmission {
		return dto.FileResponse{}, ErrDraftNotAllowed
	}

	content, mime, err := s.readUpload(upload, documentMimes)
	if err != nil {
		return dto.FileResponse{}, err
	}

	maxVersion, err := s.files.MaxDraftVersion(ctx, submissionID)
	if err != nil {
		return dto.FileResponse{}, err
	}
	version := maxVersion + 1

	key := fmt.Sprintf("submissions/%d/draft-v%d%s", submissionID, version, safeExt(upload.Name))
	record, err := s.persist(ctx, models.File{
		SubmissionID: &submissionID,
		Type:         models.FileTypeDraft,
		Version:      version,
		UploadedBy:   actorUserID,
		OriginalName: upload.Name,
		MimeType:     mime,
		Size:         int64(len(content)),
	}, key, content)
	if err != nil {
		return dto.FileResponse{}, err
	}

	if err := s.submissions.AlignDraftVersion(ctx, submissionID, version); err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("failed to align draft version")
	}

	return dto.NewFileResponse(record), nil
}

func (s *fileService) UploadFinal(ctx context.Context, submissionID uint, actorUserID uint, actorRole policy.Role, upload Upload) (dto.FileResponse, error) {
	if actorRole != policy.RoleFaculty {
		return dto.FileResponse{}, ErrForbidden
	}

	submission, err := s.submissions.GetByID(ctx, submissionID, actorUserID, actorRole)
	if err != nil {
		return dto.FileResponse{}, err
	}
	if submission.Status != policy.StatusApproved {
		return dto.FileResponse{}, ErrFinalNotAllowed
	}

	exists, err := s.files.FinalExists(ctx, submissionID)
	if err != nil {
		return dto.FileResponse{}, err
	}
	if exists {
		return dto.FileResponse{}, ErrFinalAlreadyUploaded
	}

	content, mime, err := s.readUpload(upload, documentMimes)
	if err != nil {
		return dto.FileResponse{}, err
	}

	key := fmt.Sprintf("submissions/%d/final%s", submissionID, safeExt(upload.Name))
	record, err := s.persist(ctx, models.File{
		SubmissionID: &submissionID,
		Type:         models.FileTypeFinal,
		Version:      1,
		UploadedBy:   actorUserID,
		OriginalName: upload.Name,
		MimeType:     mime,
		Size:         int64(len(content)),
	}, key, content)
	if err != nil {
		return dto.FileResponse{}, err
	}

	// The final upload is what completes the submission; the transition runs
	// through the same policy path as any other status change.
	if _, err := s.submissions.UpdateStatus(ctx, submissionID, actorUserID, actorRole, dto.SubmissionStatusRequest{
		NewStatus: policy.StatusCompleted,
		Remark:    finalRemark,
	}); err != nil {
		return dto.FileResponse{}, err
	}

	return dto.NewFileResponse(record), nil
}

func (s *fileService) UploadCertificate(ctx context.Context, actorUserID uint, actorRole policy.Role, upload Upload) (dto.FileResponse, error) {
	if actorRole != policy.RoleStudent && actorRole != policy.RoleAlumni {
		return dto.FileResponse{}, ErrForbidden
	}

	profile, err := s.directory.FindActiveStudentProfile(ctx, actorUserID)
	if err != nil {
		return dto.FileResponse{}, err
	}

	content, mime, err := s.readUpload(upload, certificateMimes)
	if err != nil {
		return dto.FileResponse{}, err
	}

	studentID := profile.ID
	key := fmt.Sprintf("students/%d/certificates/%s%s", studentID, uuid.NewString(), safeExt(upload.Name))
	record, err := s.persist(ctx, models.File{
		StudentID:    &studentID,
		Type:         models.FileTypeCertificate,
		Version:      1,
		UploadedBy:   actorUserID,
		OriginalName: upload.Name,
		MimeType:     mime,
		Size:         int64(len(content)),
	}, key, content)
	if err != nil {
		return dto.FileResponse{}, err
	}

	return dto.NewFileResponse(record), nil
}

func (s *fileService) ListForSubmission(ctx context.Context, submissionID uint, actorUserID uint, actorRole policy.Role) ([]dto.FileResponse, error) {
	// Ownership is delegated to the submission lookup.
	if _, err := s.submissions.GetByID(ctx, submissionID, actorUserID, actorRole); err != nil {
		return nil, err
	}

	files, err := s.files.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return dto.NewFileResponseSlice(files), nil
}

func (s *fileService) Download(ctx context.Context, fileID uint, actorUserID uint, actorRole policy.Role) (DownloadResult, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DownloadResult{}, ErrFileNotFound
		}
		return DownloadResult{}, err
	}

	if err := s.authorizeRead(ctx, file, actorUserID, actorRole); err != nil {
		return DownloadResult{}, err
	}

	rc, err := s.store.Open(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DownloadResult{}, ErrFileNotFound
		}
		return DownloadResult{}, err
	}

	return DownloadResult{File: dto.NewFileResponse(file), Content: rc}, nil
}

// authorizeRead grants download access to the submission's participants, the
// owning student for certificates, and admins.
func (s *fileService) authorizeRead(ctx context.Context, file models.File, actorUserID uint, actorRole policy.Role) error {
	if actorRole == policy.RoleAdmin {
		return nil
	}

	if file.SubmissionID != nil {
		_, err := s.submissions.GetByID(ctx, *file.SubmissionID, actorUserID, actorRole)
		return err
	}

	if file.StudentID != nil {
		ownerUserID, err := s.directory.ResolveStudentOwner(ctx, *file.StudentID)
		if err != nil {
			return err
		}
		if (actorRole == policy.RoleStudent || actorRole == policy.RoleAlumni) && actorUserID == ownerUserID {
			return nil
		}
	}

	return ErrForbidden
}

// readUpload buffers the upload, enforces the size cap and sniffs the
// content type against the allow-list.
func (s *fileService) readUpload(upload Upload, allowed []string) ([]byte, string, error) {
	if upload.Size > s.maxBytes {
		return nil, "", ErrFileTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(upload.Content, s.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return nil, "", ErrFileTooLarge
	}
	if len(content) == 0 {
		return nil, "", ErrUnsupportedFileType
	}

	mime := mimetype.Detect(content)
	for _, want := range allowed {
		if mime.Is(want) {
			return content, mime.String(), nil
		}
	}
	return nil, "", ErrUnsupportedFileType
}

// persist stores the blob first, then the record; a failed insert deletes
// the blob again so storage never holds bytes with no row.
func (s *fileService) persist(ctx context.Context, file models.File, key string, content []byte) (models.File, error) {
	storageKey, err := s.store.Save(ctx, key, file.OriginalName, bytes.NewReader(content))
	if err != nil {
		return models.File{}, err
	}
	file.StorageKey = storageKey

	if err := s.files.Create(ctx, &file); err != nil {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			s.logger.Error().Err(delErr).Str("key", storageKey).Msg("failed to remove orphaned blob")
		}
		return models.File{}, err
	}

	observability.UploadedFiles().WithLabelValues(file.Type).Inc()
	s.logger.Info().
		Uint("file_id", file.ID).
		Str("type", file.Type).
		Int("version", file.Version).
		Msg("file stored")

	return file, nil
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png":
		return ext
	default:
		return ""
	}
}
