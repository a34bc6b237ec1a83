package dto

import (
	"time"

	"github.com/noah-isme/lor-tracker-api/internal/models"
)

// FileResponse describes one attachment without exposing the storage key.
type FileResponse struct {
	ID           uint      `json:"id"`
	Type         string    `json:"type"`
	Version      int       `json:"version"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// NewFileResponse maps a file model to its response shape.
func NewFileResponse(f models.File) FileResponse {
	return FileResponse{
		ID:           f.ID,
		Type:         f.Type,
		Version:      f.Version,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedAt:   f.CreatedAt,
	}
}

// NewFileResponseSlice maps file models to response shapes.
func NewFileResponseSlice(files []models.File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, NewFileResponse(f))
	}
	return out
}
