package handler

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// FileHandler exposes attachment upload and download endpoints.
type FileHandler struct {
	files service.FileService
}

// NewFileHandler constructs a FileHandler.
func NewFileHandler(files service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// formUpload extracts the "file" part of a multipart request.
func formUpload(c *fiber.Ctx) (service.Upload, multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return service.Upload{}, nil, errors.New("file field is required")
	}

	f, err := header.Open()
	if err != nil {
		return service.Upload{}, nil, errors.New("failed to read upload")
	}

	return service.Upload{
		Name:    header.Filename,
		Size:    header.Size,
		Content: f,
	}, f, nil
}

// UploadDraft attaches a new draft version to a submission.
func (h *FileHandler) UploadDraft(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	upload, f, err := formUpload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	file, err := h.files.UploadDraft(c.UserContext(), id, p.UserID, p.Role, upload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "draft uploaded", file)
}

// UploadFinal attaches the final letter and completes the submission.
func (h *FileHandler) UploadFinal(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	upload, f, err := formUpload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	file, err := h.files.UploadFinal(c.UserContext(), id, p.UserID, p.Role, upload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "final letter uploaded", file)
}

// UploadCertificate stores a certificate for the caller's profile.
func (h *FileHandler) UploadCertificate(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	upload, f, err := formUpload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	file, err := h.files.UploadCertificate(c.UserContext(), p.UserID, p.Role, upload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "certificate uploaded", file)
}

// ListForSubmission returns a submission's attachments.
func (h *FileHandler) ListForSubmission(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	files, err := h.files.ListForSubmission(c.UserContext(), id, p.UserID, p.Role)
	if err != nil {
		return handleError(c, err)
	}

	return utils.OK(c, files, "files retrieved", fiber.Map{"count": len(files)})
}

// Download streams one attachment's bytes.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	result, err := h.files.Download(c.UserContext(), id, p.UserID, p.Role)
	if err != nil {
		return handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, result.File.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.File.OriginalName))
	return c.SendStream(result.Content, int(result.File.Size))
}
