package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ImageFetcher downloads raw photo bytes. A failed fetch isolates one photo
// from the batch, it never aborts indexing.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPImageFetcher downloads photos over HTTP. Photo URLs typically point at
// an IPFS gateway, which can be slow, so the timeout is generous.
type HTTPImageFetcher struct {
	client *resty.Client
}

// NewHTTPImageFetcher creates an HTTPImageFetcher.
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPImageFetcher{
		client: resty.New().SetTimeout(timeout),
	}
}

// Fetch downloads the image at url.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
