package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Local stores blobs as plain files under a root directory. The suggested
// key becomes the relative path, so keys double as stable storage keys.
type Local struct {
	root   string
	logger zerolog.Logger
}

// NewLocal prepares the root directory and returns a disk-backed store.
func NewLocal(root string, logger zerolog.Logger) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("upload directory must be configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Local{
		root:   root,
		logger: logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

func (l *Local) Save(ctx context.Context, key string, name string, r io.Reader) (string, error) {
	path, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	// Write to a temp file first so a failed upload never leaves a partial
	// blob under the final key.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to finalize blob: %w", err)
	}

	l.logger.Debug().Str("key", key).Str("name", name).Msg("blob stored")
	return key, nil
}

func (l *Local) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	path, err := l.resolve(storageKey)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, storageKey string) error {
	path, err := l.resolve(storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// resolve maps a key to an absolute path and rejects anything escaping the
// root.
func (l *Local) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fs.ErrInvalid
	}
	return filepath.Join(l.root, cleaned), nil
}
