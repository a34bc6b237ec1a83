// Package cloudinary implements blob storage on top of Cloudinary. The
// storage key recorded for a blob is its secure delivery URL, so reads are
// plain HTTP fetches.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lor-tracker-api/pkg/storage"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service implements storage.FileStorage using Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	http   *http.Client
	folder string
	logger zerolog.Logger
}

var _ storage.FileStorage = (*Service)(nil)

// New constructs a Cloudinary-backed store.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		http:   &http.Client{Timeout: 60 * time.Second},
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Save uploads the blob and returns its secure URL as the storage key. The
// suggested key becomes the public id so re-uploads of the same key replace
// each other instead of piling up.
func (s *Service) Save(ctx context.Context, key string, name string, r io.Reader) (string, error) {
	overwrite := true
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     sanitizePublicID(key),
		ResourceType: "auto",
		Overwrite:    &overwrite,
	}

	result, err := s.client.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Str("name", name).Msg("file uploaded to cloudinary")
	return result.SecureURL, nil
}

func (s *Service) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, storageKey, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid storage key: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, storage.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d fetching asset", resp.StatusCode)
	}

	return resp.Body, nil
}

func (s *Service) Delete(ctx context.Context, storageKey string) error {
	publicID, err := publicIDFromURL(storageKey)
	if err != nil {
		return err
	}

	_, err = s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy asset: %w", err)
	}
	return nil
}

func sanitizePublicID(key string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '/' || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.TrimSuffix(key, path.Ext(key)))
}

// publicIDFromURL recovers the public id from a delivery URL: everything
// after the version segment, extension stripped.
func publicIDFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid storage key: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if len(seg) > 1 && seg[0] == 'v' && isDigits(seg[1:]) && i+1 < len(segments) {
			id := strings.Join(segments[i+1:], "/")
			return strings.TrimSuffix(id, path.Ext(id)), nil
		}
	}
	return "", fmt.Errorf("storage key %q is not a cloudinary delivery url", rawURL)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
