package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/truegift/truegift-rag/internal/domain"
)

// ImageScorer returns the top-1 prediction for an image. An empty label with
// a nil error means the model produced no prediction at all.
type ImageScorer interface {
	ScoreTop1(ctx context.Context, image []byte) (label string, confidence float64, err error)
}

// ServingClassifier calls a YOLO classification model behind an HTTP
// inference endpoint.
type ServingClassifier struct {
	client *resty.Client
	model  string
}

// ServingClassifierConfig holds configuration for one inference endpoint.
type ServingClassifierConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// NewServingClassifier creates a classifier client for one endpoint.
func NewServingClassifier(cfg *ServingClassifierConfig) *ServingClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.URL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &ServingClassifier{
		client: client,
		model:  cfg.Model,
	}
}

type classifyRequest struct {
	Model string `json:"model"`
	Image string `json:"image"` // base64-encoded
	TopK  int    `json:"top_k"`
}

type classifyResponse struct {
	Predictions []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"predictions"`
	Detail string `json:"detail,omitempty"`
}

// ScoreTop1 sends the image to the inference endpoint and returns the
// highest-confidence prediction.
func (c *ServingClassifier) ScoreTop1(ctx context.Context, image []byte) (string, float64, error) {
	req := classifyRequest{
		Model: c.model,
		Image: base64.StdEncoding.EncodeToString(image),
		TopK:  1,
	}

	var resp classifyResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post("/predict")
	if err != nil {
		return "", 0, fmt.Errorf("failed to call classifier: %w", err)
	}
	if httpResp.IsError() {
		if resp.Detail != "" {
			return "", 0, fmt.Errorf("classifier error: %s", resp.Detail)
		}
		return "", 0, fmt.Errorf("classifier error: status %d", httpResp.StatusCode())
	}

	if len(resp.Predictions) == 0 {
		return "", 0, nil
	}

	top := resp.Predictions[0]
	for _, p := range resp.Predictions[1:] {
		if p.Confidence > top.Confidence {
			top = p
		}
	}
	return top.Label, top.Confidence, nil
}

// FallbackClassifier runs the food-specific model first and falls through to
// a general-purpose model when the food model is not confident.
type FallbackClassifier struct {
	primary   ImageScorer
	general   ImageScorer
	threshold float64
}

// NewFallbackClassifier creates a FallbackClassifier. A threshold of zero or
// less defaults to 0.6.
func NewFallbackClassifier(primary, general ImageScorer, threshold float64) *FallbackClassifier {
	if threshold <= 0 {
		threshold = 0.6
	}
	return &FallbackClassifier{
		primary:   primary,
		general:   general,
		threshold: threshold,
	}
}

// Classify runs the fallback chain. The confidence comparison applies only
// to the primary model; a label from the general model is accepted at any
// confidence, flagged as non-food.
func (f *FallbackClassifier) Classify(ctx context.Context, image []byte) (domain.Classification, error) {
	label, confidence, err := f.primary.ScoreTop1(ctx, image)
	if err == nil && label != "" && confidence >= f.threshold {
		return domain.Classification{
			Label:      label,
			Confidence: confidence,
			IsFood:     true,
		}, nil
	}

	generalLabel, generalConfidence, generalErr := f.general.ScoreTop1(ctx, image)
	if generalErr != nil {
		if err != nil {
			return domain.Classification{}, fmt.Errorf("both classifiers failed: primary: %v, general: %w", err, generalErr)
		}
		return domain.Classification{}, generalErr
	}

	return domain.Classification{
		Label:      generalLabel,
		Confidence: generalConfidence,
		IsFood:     false,
	}, nil
}
