package storage

import (
	"context"
	"io"
)

// ObjectStorage abstracts the S3-compatible object store the photo archive
// writes to.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for an object key.
	GetURL(key string) string
}
