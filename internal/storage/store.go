package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object has the given name.
var ErrNotFound = errors.New("upload not found")

// Store persists uploaded product images under their sanitized filename.
// Saving an existing name overwrites it.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Exists(ctx context.Context, name string) bool
}

var (
	_ Store = (*LocalStore)(nil)
	_ Store = (*MinioStore)(nil)
)
