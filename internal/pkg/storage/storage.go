package storage

import (
	"context"
	"io"
)

// Storage stores blobs under slash-separated relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error

	// Get returns ErrNotExist (wrapped) when nothing is stored at path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is a no-op for missing paths.
	Delete(ctx context.Context, path string) error
}
