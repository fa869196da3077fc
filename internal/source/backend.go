package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/truegift/truegift-rag/internal/domain"
)

const defaultBackendTimeout = 15 * time.Second

// BackendConfig holds configuration for the TrueGift backend client.
type BackendConfig struct {
	BaseURL          string
	APIPrefix        string
	DefaultAuthToken string
	Timeout          time.Duration
}

// BackendClient fetches photo batches from the TrueGift backend API.
type BackendClient struct {
	client       *resty.Client
	apiPrefix    string
	defaultToken string
}

// NewBackendClient creates a new BackendClient.
func NewBackendClient(cfg *BackendConfig) *BackendClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &BackendClient{
		client:       client,
		apiPrefix:    strings.TrimSuffix(prefix, "/"),
		defaultToken: cfg.DefaultAuthToken,
	}
}

// backendPhoto mirrors the backend's photo record.
type backendPhoto struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	CreatedAt string `json:"createdAt"`
}

// photosResponse is the backend's combined feed payload.
type photosResponse struct {
	UserPhotos   []backendPhoto `json:"userPhotos"`
	FriendPhotos []backendPhoto `json:"friendPhotos"`
}

// FetchBatch fetches the latest photos for the authenticated user and their
// friends, marking ownership on every returned photo.
func (c *BackendClient) FetchBatch(ctx context.Context, authToken string, maxCount int) (*PhotoBatch, error) {
	token := authToken
	if token == "" {
		token = c.defaultToken
	}
	if token == "" {
		return nil, fmt.Errorf("no auth token available for backend fetch")
	}

	var payload photosResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("limit", strconv.Itoa(maxCount)).
		SetResult(&payload).
		Get(c.apiPrefix + "/photos/latest")
	if err != nil {
		return nil, fmt.Errorf("backend photo fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("backend photo fetch returned status %d", resp.StatusCode())
	}

	batch := &PhotoBatch{
		OwnPhotos:    make([]domain.Photo, 0, len(payload.UserPhotos)),
		FriendPhotos: make([]domain.Photo, 0, len(payload.FriendPhotos)),
	}
	for _, p := range payload.UserPhotos {
		batch.OwnPhotos = append(batch.OwnPhotos, toDomain(p, true, false))
	}
	for _, p := range payload.FriendPhotos {
		batch.FriendPhotos = append(batch.FriendPhotos, toDomain(p, false, true))
	}

	return batch, nil
}

func toDomain(p backendPhoto, own, friend bool) domain.Photo {
	return domain.Photo{
		ID:            p.ID,
		URL:           p.URL,
		UserID:        p.UserID,
		UserName:      p.UserName,
		CreatedAt:     p.CreatedAt,
		IsOwnPhoto:    own,
		IsFriendPhoto: friend,
	}
}
