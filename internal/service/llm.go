package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/truegift/truegift-rag/internal/logger"
)

// LanguageModel generates suggestion text. Stream delivers incremental
// chunks; the returned channel is closed when generation ends or ctx is
// cancelled.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string) (<-chan string, error)
}

// LLMConfig holds configuration for the language model client.
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string // OpenAI-compatible endpoint, e.g. the Groq API
	MaxTokens   int
	Temperature float32
}

// LLMService calls an OpenAI-compatible chat completion API.
type LLMService struct {
	client      *openai.Client
	provider    string
	model       string
	maxTokens   int
	temperature float32
	logger      *logger.Logger
}

// NewLLMService creates an LLMService.
func NewLLMService(cfg *LLMConfig, log *logger.Logger) *LLMService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &LLMService{
		client:      openai.NewClientWithConfig(clientCfg),
		provider:    cfg.Provider,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		logger:      log,
	}
}

// GetModel returns the model name being used.
func (s *LLMService) GetModel() string {
	return s.model
}

// GetProvider returns the configured provider name.
func (s *LLMService) GetProvider() string {
	return s.provider
}

func (s *LLMService) request(prompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Stream:      stream,
	}
}

// Complete awaits the full completion and returns it with surrounding
// whitespace stripped.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, s.request(prompt, false))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Stream forwards completion chunks as they arrive. The goroutine stops on
// consumer disconnect via ctx cancellation; chunks are sent with a select so
// an abandoned reader does not leak it.
func (s *LLMService) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	stream, err := s.client.CreateChatCompletionStream(ctx, s.request(prompt, true))
	if err != nil {
		return nil, fmt.Errorf("chat completion stream failed: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				s.logger.WithError(err).Warn("Completion stream interrupted")
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			chunk := resp.Choices[0].Delta.Content
			if chunk == "" {
				continue
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Status checks whether the provider is reachable and lists its models.
func (s *LLMService) Status(ctx context.Context) (bool, []string, error) {
	list, err := s.client.ListModels(ctx)
	if err != nil {
		return false, nil, err
	}
	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return true, models, nil
}
