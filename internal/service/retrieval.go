package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/truegift/truegift-rag/internal/friends"
	"github.com/truegift/truegift-rag/internal/logger"
	"github.com/truegift/truegift-rag/internal/prompts"
	"github.com/truegift/truegift-rag/internal/repository"
)

// Placeholder snippets returned when a retrieval mode finds no documents.
// Consumers detect them by prefix and pass them through unchanged.
const (
	placeholderPrefix       = "Chưa có món ăn nào"
	friendPlaceholderPrefix = "Chưa có món ăn nào từ bạn bè"

	ownPlaceholder    = "Chưa có món ăn nào của bạn được lưu lại. Hãy đăng vài tấm ảnh món ăn nhé!"
	friendPlaceholder = "Chưa có món ăn nào từ bạn bè của bạn được chia sẻ."
	mixedPlaceholder  = "Chưa có món ăn nào của bạn hoặc bạn bè được lưu lại."
)

// IsPlaceholder reports whether a snippet is a no-data sentinel rather than
// real retrieved content.
func IsPlaceholder(snippet string) bool {
	return strings.HasPrefix(snippet, placeholderPrefix)
}

// IsFriendPlaceholder reports whether a snippet is the friends-specific
// no-data sentinel.
func IsFriendPlaceholder(snippet string) bool {
	return strings.HasPrefix(snippet, friendPlaceholderPrefix)
}

// VectorSearcher is the slice of the vector repository retrieval needs.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, topK int, filter *repository.PhotoFilter) ([]repository.PhotoMatch, error)
}

// Snippet is one piece of retrieved food context. Placeholder snippets carry
// no food name or poster.
type Snippet struct {
	Text        string
	FoodName    string
	Poster      string
	Placeholder bool
}

// RetrievalResult is the assembled context for one suggestion request.
// FoodNames holds the distinct food names in first-seen order.
type RetrievalResult struct {
	Snippets  []Snippet
	FoodNames []string
}

// HasOnlyPlaceholders reports whether no real snippet was retrieved.
func (r *RetrievalResult) HasOnlyPlaceholders() bool {
	for _, s := range r.Snippets {
		if !s.Placeholder {
			return false
		}
	}
	return true
}

// RetrievalService queries the vector index for food context, scoped by
// retrieval mode and the friendship relation.
type RetrievalService struct {
	store      VectorSearcher
	embedder   Embedder
	relation   friends.Relation
	oversample int
	logger     *logger.Logger
}

// NewRetrievalService creates a RetrievalService. oversample multiplies topK
// on friends-mode store queries to leave room for post-filtering; zero or
// less defaults to 10.
func NewRetrievalService(store VectorSearcher, embedder Embedder, relation friends.Relation, oversample int, log *logger.Logger) *RetrievalService {
	if oversample <= 0 {
		oversample = 10
	}
	return &RetrievalService{
		store:      store,
		embedder:   embedder,
		relation:   relation,
		oversample: oversample,
		logger:     log,
	}
}

func (s *RetrievalService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Retrieve returns food-context snippets for the user under the given
// retrieval mode. The snippet list is never empty: when nothing matches, a
// single placeholder stands in.
func (s *RetrievalService) Retrieve(ctx context.Context, userID string, mode prompts.RetrievalMode, topK int) (*RetrievalResult, error) {
	vector, err := s.embedder.EmbedQuery(ctx, prompts.RetrievalQueryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed retrieval query: %w", err)
	}

	var snippets []Snippet
	switch mode {
	case prompts.ModeFriends:
		friendSnippets, err := s.friendSnippets(ctx, userID, vector, topK)
		if err != nil {
			return nil, err
		}
		if len(friendSnippets) == 0 {
			snippets = []Snippet{{Text: friendPlaceholder, Placeholder: true}}
		} else {
			snippets = friendSnippets
		}

	case prompts.ModeMixed:
		half := topK / 2
		if half < 1 {
			half = 1
		}
		ownSnippets, err := s.ownSnippets(ctx, userID, vector, half)
		if err != nil {
			return nil, err
		}
		friendSnippets, err := s.friendSnippets(ctx, userID, vector, half)
		if err != nil {
			return nil, err
		}
		// Own-derived snippets come first. Placeholders are only emitted
		// when both sides are empty.
		snippets = append(snippets, ownSnippets...)
		snippets = append(snippets, friendSnippets...)
		if len(snippets) == 0 {
			snippets = []Snippet{{Text: mixedPlaceholder, Placeholder: true}}
		}

	default: // own-only
		ownSnippets, err := s.ownSnippets(ctx, userID, vector, topK)
		if err != nil {
			return nil, err
		}
		if len(ownSnippets) == 0 {
			snippets = []Snippet{{Text: ownPlaceholder, Placeholder: true}}
		} else {
			snippets = ownSnippets
		}
	}

	result := &RetrievalResult{
		Snippets:  snippets,
		FoodNames: distinctFoodNames(snippets),
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldUserID: userID,
		"mode":             string(mode),
		"snippets":         len(result.Snippets),
		"food_names":       len(result.FoodNames),
	}).Debug("Context retrieved")

	return result, nil
}

func (s *RetrievalService) ownSnippets(ctx context.Context, userID string, vector []float32, topK int) ([]Snippet, error) {
	isOwn, isFood := true, true
	filter := &repository.PhotoFilter{
		UserID:     &userID,
		IsOwnPhoto: &isOwn,
		IsFood:     &isFood,
	}

	matches, err := s.store.Search(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("own-context search failed: %w", err)
	}

	return toSnippets(matches), nil
}

func (s *RetrievalService) friendSnippets(ctx context.Context, userID string, vector []float32, topK int) ([]Snippet, error) {
	// The store cannot evaluate the friendship relation, so fetch a larger
	// candidate pool and filter locally.
	isFood := true
	filter := &repository.PhotoFilter{
		ExcludeUserID: &userID,
		IsFood:        &isFood,
	}

	matches, err := s.store.Search(ctx, vector, topK*s.oversample, filter)
	if err != nil {
		return nil, fmt.Errorf("friend-context search failed: %w", err)
	}

	kept := make([]repository.PhotoMatch, 0, topK)
	for _, m := range matches {
		if m.Payload == nil {
			continue
		}
		if !s.relation.AreFriends(userID, m.Payload.UserID) {
			continue
		}
		kept = append(kept, m)
		if len(kept) == topK {
			break
		}
	}

	return toSnippets(kept), nil
}

func toSnippets(matches []repository.PhotoMatch) []Snippet {
	snippets := make([]Snippet, 0, len(matches))
	for _, m := range matches {
		if m.Caption == "" {
			continue
		}
		snippet := Snippet{Text: m.Caption}
		if m.Payload != nil {
			snippet.FoodName = m.Payload.FoodClass
			snippet.Poster = m.Payload.UserName
		}
		if snippet.FoodName == "" {
			snippet.FoodName = FoodNameFromCaption(m.Caption)
		}
		snippets = append(snippets, snippet)
	}
	return snippets
}

func distinctFoodNames(snippets []Snippet) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, s := range snippets {
		if s.Placeholder || s.FoodName == "" {
			continue
		}
		if seen[s.FoodName] {
			continue
		}
		seen[s.FoodName] = true
		names = append(names, s.FoodName)
	}
	return names
}
