// Package storage abstracts blob persistence for uploaded attachments.
// Backends store bytes under opaque keys; all metadata lives in the
// database, so a backend never needs to list or query.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the backend holds no blob under the given key.
var ErrNotFound = errors.New("blob not found")

// FileStorage persists and retrieves attachment blobs.
//
// Save returns the storage key to persist alongside the file record; it may
// differ from the suggested key (remote backends return their own locator).
type FileStorage interface {
	Save(ctx context.Context, key string, name string, r io.Reader) (string, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
