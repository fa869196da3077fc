package service

import (
	"context"
	"strings"
	"testing"

	"github.com/truegift/truegift-rag/internal/prompts"
	"github.com/truegift/truegift-rag/internal/repository"
)

// echoLLM returns its own prompt so tests can assert on the rendered
// context, and counts invocations.
type echoLLM struct {
	calls int
}

func (l *echoLLM) Complete(ctx context.Context, prompt string) (string, error) {
	l.calls++
	return strings.TrimSpace(prompt), nil
}

func (l *echoLLM) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	l.calls++
	out := make(chan string, 1)
	out <- prompt
	close(out)
	return out, nil
}

type fakeRetriever struct {
	result *RetrievalResult
}

func (f *fakeRetriever) Retrieve(ctx context.Context, userID string, mode prompts.RetrievalMode, topK int) (*RetrievalResult, error) {
	return f.result, nil
}

type fakeEnricher struct{}

func (fakeEnricher) Enrich(ctx context.Context, foodNames []string) string {
	return NoFoodInfo
}

func TestSuggestUnknownPromptKey(t *testing.T) {
	llm := &echoLLM{}
	svc := NewSuggestService(&fakeRetriever{}, fakeEnricher{}, llm, 5, newTestLogger())

	got := svc.Suggest(context.Background(), "1", "write_a_poem")

	if got != msgUnknownPrompt {
		t.Errorf("got %q, want the unknown-prompt message", got)
	}
	if llm.calls != 0 {
		t.Error("language model must not be called for an unknown key")
	}
}

func TestSuggestOwnPlaceholderReturnedVerbatim(t *testing.T) {
	llm := &echoLLM{}
	retriever := &fakeRetriever{result: &RetrievalResult{
		Snippets: []Snippet{{Text: ownPlaceholder, Placeholder: true}},
	}}
	svc := NewSuggestService(retriever, fakeEnricher{}, llm, 5, newTestLogger())

	got := svc.Suggest(context.Background(), "1", prompts.KeySpecialDay)

	if got != ownPlaceholder {
		t.Errorf("got %q, want the placeholder verbatim", got)
	}
	if llm.calls != 0 {
		t.Error("language model must not be called without context")
	}
}

func TestSuggestGroupingNoRepeats(t *testing.T) {
	// A and B both posted phở, and A posted phở twice. The rendered
	// context must mention phở once and cite A once under it.
	snippets := []Snippet{
		{Text: "s1", FoodName: "phở", Poster: "A"},
		{Text: "s2", FoodName: "phở", Poster: "B"},
		{Text: "s3", FoodName: "phở", Poster: "A"},
	}

	block := renderContext(snippets)

	if got := strings.Count(block, "phở"); got != 1 {
		t.Errorf("phở appears %d times in context, want 1:\n%s", got, block)
	}
	if got := strings.Count(block, "A"); got != 1 {
		t.Errorf("poster A cited %d times, want 1:\n%s", got, block)
	}
	if !strings.Contains(block, "B") {
		t.Errorf("poster B missing from context:\n%s", block)
	}
}

// suggestFixture wires the real retrieval engine over an in-memory store:
// user 1 posted phở, their friend user 3 posted bún chả.
func suggestFixture(llm LanguageModel) *SuggestService {
	store := &fakeSearcher{matches: []repository.PhotoMatch{
		foodDoc("p1", "1", "Hoa Thanh", "phở", true),
		foodDoc("p2", "3", "Super Admin", "bún chả", true),
	}}
	retrieval := newTestRetrieval(store, []string{"1:3"})
	return NewSuggestService(retrieval, fakeEnricher{}, llm, 5, newTestLogger())
}

func TestSuggestLikeFriendsEndToEnd(t *testing.T) {
	llm := &echoLLM{}
	svc := suggestFixture(llm)

	got := svc.Suggest(context.Background(), "1", prompts.KeyLikeFriends)

	if got == "" {
		t.Fatal("suggestion is empty")
	}
	if !strings.Contains(got, "bún chả") {
		t.Errorf("suggestion prompt missing the friend's dish:\n%s", got)
	}
	if strings.Contains(got, "phở") {
		t.Errorf("own dish leaked into friends-only context:\n%s", got)
	}
	if llm.calls != 1 {
		t.Errorf("language model calls = %d, want 1", llm.calls)
	}
}

func TestSuggestLikeFriendsNoFriends(t *testing.T) {
	llm := &echoLLM{}
	svc := suggestFixture(llm)

	got := svc.Suggest(context.Background(), "9", prompts.KeyLikeFriends)

	if got != msgNoFriendFood {
		t.Errorf("got %q, want the no-friend message", got)
	}
	if llm.calls != 0 {
		t.Error("language model must not be called when friends have no content")
	}
}

func TestSuggestStreamEarlyExitDeliversSingleChunk(t *testing.T) {
	llm := &echoLLM{}
	svc := suggestFixture(llm)

	chunks := svc.SuggestStream(context.Background(), "9", prompts.KeyLikeFriends)

	var got []string
	for chunk := range chunks {
		got = append(got, chunk)
	}
	if len(got) != 1 || got[0] != msgNoFriendFood {
		t.Errorf("stream chunks = %v, want the single no-friend message", got)
	}
}
