package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/prompts"
)

// User-facing fallback messages. The suggestion surface never raises; every
// failure path resolves to one of these.
const (
	msgUnknownPrompt = "Không hiểu bạn muốn hỏi gì 🤔"
	msgNoFriendFood  = "Bạn bè của bạn chưa chia sẻ món ăn nào. Hãy rủ bạn bè đăng ảnh món ăn nhé! 🍜📸"
	msgSuggestError  = "Đã xảy ra lỗi khi tạo gợi ý 😢"
)

// ContextRetriever supplies food-context snippets for a user and mode.
type ContextRetriever interface {
	Retrieve(ctx context.Context, userID string, mode prompts.RetrievalMode, topK int) (*RetrievalResult, error)
}

// Enricher resolves food names to catalog facts.
type Enricher interface {
	Enrich(ctx context.Context, foodNames []string) string
}

// SuggestService assembles the suggestion prompt from retrieved context and
// catalog enrichment, then delegates to the language model.
type SuggestService struct {
	retriever ContextRetriever
	enricher  Enricher
	llm       LanguageModel
	topK      int
	logger    *logger.Logger
}

// NewSuggestService creates a SuggestService. topK of zero or less defaults
// to 5.
func NewSuggestService(retriever ContextRetriever, enricher Enricher, llm LanguageModel, topK int, log *logger.Logger) *SuggestService {
	if topK <= 0 {
		topK = 5
	}
	return &SuggestService{
		retriever: retriever,
		enricher:  enricher,
		llm:       llm,
		topK:      topK,
		logger:    log,
	}
}

func (s *SuggestService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// prepare resolves the prompt for a suggestion request. When the request
// terminates early (unknown key, no context, retrieval failure) it returns
// an empty prompt and the final user-facing message instead.
func (s *SuggestService) prepare(ctx context.Context, userID, promptKey string) (prompt, earlyExit string) {
	template, ok := prompts.Template(promptKey)
	if !ok {
		return "", msgUnknownPrompt
	}

	mode := prompts.ModeFor(promptKey)
	result, err := s.retriever.Retrieve(ctx, userID, mode, s.topK)
	if err != nil {
		s.log(ctx).WithFields(logger.Fields{
			logger.FieldUserID:    userID,
			logger.FieldPromptKey: promptKey,
		}).WithError(err).Error("Context retrieval failed")
		return "", msgSuggestError
	}

	// The friends sentinel takes priority over the generic empty check so
	// the user hears about their friends, not about missing data.
	for _, snippet := range result.Snippets {
		if snippet.Placeholder && IsFriendPlaceholder(snippet.Text) {
			return "", msgNoFriendFood
		}
	}
	if result.HasOnlyPlaceholders() {
		return "", result.Snippets[0].Text
	}

	foodInfo := s.enricher.Enrich(ctx, result.FoodNames)
	contextBlock := renderContext(result.Snippets)

	return prompts.Render(template, contextBlock, foodInfo), ""
}

// Suggest returns the full suggestion text for a prompt key. It never
// returns an error; failures resolve to a fallback message.
func (s *SuggestService) Suggest(ctx context.Context, userID, promptKey string) string {
	prompt, earlyExit := s.prepare(ctx, userID, promptKey)
	if earlyExit != "" {
		return earlyExit
	}

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.log(ctx).WithFields(logger.Fields{
			logger.FieldUserID:    userID,
			logger.FieldPromptKey: promptKey,
		}).WithError(err).Error("Suggestion completion failed")
		return msgSuggestError
	}
	return text
}

// SuggestStream streams the suggestion as incremental chunks. Early-exit
// messages arrive as a single chunk; the channel always closes.
func (s *SuggestService) SuggestStream(ctx context.Context, userID, promptKey string) <-chan string {
	prompt, earlyExit := s.prepare(ctx, userID, promptKey)
	if earlyExit != "" {
		return singleChunk(earlyExit)
	}

	stream, err := s.llm.Stream(ctx, prompt)
	if err != nil {
		s.log(ctx).WithFields(logger.Fields{
			logger.FieldUserID:    userID,
			logger.FieldPromptKey: promptKey,
		}).WithError(err).Error("Suggestion stream failed")
		return singleChunk(msgSuggestError)
	}
	return stream
}

func singleChunk(text string) <-chan string {
	out := make(chan string, 1)
	out <- text
	close(out)
	return out
}

// renderContext groups real snippets by food name. Each food appears once
// and each poster is listed at most once under a food, no matter how many
// photos of it they shared.
func renderContext(snippets []Snippet) string {
	var order []string
	posters := make(map[string][]string)
	cited := make(map[string]map[string]bool)
	var unnamed []string

	for _, s := range snippets {
		if s.Placeholder {
			continue
		}
		if s.FoodName == "" {
			unnamed = append(unnamed, s.Text)
			continue
		}
		if _, ok := cited[s.FoodName]; !ok {
			order = append(order, s.FoodName)
			cited[s.FoodName] = make(map[string]bool)
		}
		if s.Poster == "" || cited[s.FoodName][s.Poster] {
			continue
		}
		cited[s.FoodName][s.Poster] = true
		posters[s.FoodName] = append(posters[s.FoodName], s.Poster)
	}

	var lines []string
	for _, food := range order {
		if who := posters[food]; len(who) > 0 {
			lines = append(lines, fmt.Sprintf("- %s (đăng bởi %s)", food, strings.Join(who, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("- %s", food))
		}
	}
	for _, text := range unnamed {
		lines = append(lines, "- "+text)
	}

	return strings.Join(lines, "\n")
}
