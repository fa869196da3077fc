package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
)

// PhotoArchive keeps a durable copy of every indexed photo in object
// storage. Archiving is best-effort: the caller decides whether a failed
// upload aborts indexing (it should not).
type PhotoArchive struct {
	store  ObjectStorage
	prefix string
}

// NewPhotoArchive creates a PhotoArchive writing under the given key prefix.
func NewPhotoArchive(store ObjectStorage, prefix string) *PhotoArchive {
	return &PhotoArchive{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key returns the archive object key for a photo.
func (a *PhotoArchive) Key(userID, photoID string, contentType string) string {
	ext := extensionFor(contentType)
	name := photoID + ext
	if a.prefix == "" {
		return path.Join(userID, name)
	}
	return path.Join(a.prefix, userID, name)
}

// Store uploads the raw photo bytes if they are not already archived.
// Returns the object key.
func (a *PhotoArchive) Store(ctx context.Context, userID, photoID string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	key := a.Key(userID, photoID, contentType)

	exists, err := a.store.Exists(ctx, key)
	if err == nil && exists {
		return key, nil
	}

	if err := a.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("failed to archive photo %s: %w", photoID, err)
	}

	return key, nil
}

// URL returns the public URL for an archived photo key.
func (a *PhotoArchive) URL(key string) string {
	return a.store.GetURL(key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
