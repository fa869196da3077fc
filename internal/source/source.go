package source

import (
	"context"

	"github.com/truegift/truegift-rag/internal/domain"
)

// PhotoBatch is one fetch from the backend: the authenticated user's own
// photos plus the photos their friends posted. Ownership flags are already
// set on every photo in the batch.
type PhotoBatch struct {
	OwnPhotos    []domain.Photo
	FriendPhotos []domain.Photo
}

// All returns the combined batch, own photos first.
func (b *PhotoBatch) All() []domain.Photo {
	all := make([]domain.Photo, 0, len(b.OwnPhotos)+len(b.FriendPhotos))
	all = append(all, b.OwnPhotos...)
	all = append(all, b.FriendPhotos...)
	return all
}

// PhotoSource defines the interface for photo batch providers.
type PhotoSource interface {
	// FetchBatch fetches up to maxCount recent photos visible to the user
	// identified by authToken. An empty authToken falls back to the
	// provider's configured default token.
	FetchBatch(ctx context.Context, authToken string, maxCount int) (*PhotoBatch, error)
}
