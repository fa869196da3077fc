package service

import (
	"context"
	"strings"
	"testing"

	"github.com/truegift/truegift-rag/internal/domain"
)

type fakeLoader struct {
	entries []domain.CatalogEntry
	err     error
}

func (f *fakeLoader) Load() ([]domain.CatalogEntry, error) {
	return f.entries, f.err
}

func newTestEnricher(entries ...domain.CatalogEntry) *EnrichmentService {
	return NewEnrichmentService(&fakeLoader{entries: entries}, newTestLogger())
}

func TestEnrichExactMatch(t *testing.T) {
	svc := newTestEnricher(domain.CatalogEntry{
		Name:           "Phở Bò",
		Price:          "50.000đ",
		Description:    "Phở bò truyền thống Hà Nội",
		PopularAddress: "Phố Lý Quốc Sư, Hà Nội",
	})

	got := svc.Enrich(context.Background(), []string{"phở  bò"})

	if got == NoFoodInfo {
		t.Fatal("expected a catalog line, got the no-info sentinel")
	}
	if !strings.Contains(got, "Phở Bò") || !strings.Contains(got, "50.000đ") {
		t.Errorf("enrichment line missing catalog facts: %q", got)
	}
	if strings.Contains(got, "gần giống với") {
		t.Errorf("exact match must not be labeled as near-match: %q", got)
	}
}

func TestEnrichFuzzyCutoff(t *testing.T) {
	// Similarity is 1 - distance/len over 100-rune names: 20 edits is
	// exactly 0.80, 21 edits is 0.79.
	base := strings.Repeat("a", 100)
	accept := strings.Repeat("a", 80) + strings.Repeat("b", 20)
	reject := strings.Repeat("a", 79) + strings.Repeat("b", 21)

	testCases := []struct {
		name      string
		query     string
		wantMatch bool
	}{
		{"similarity exactly at cutoff is accepted", accept, true},
		{"similarity just below cutoff is rejected", reject, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestEnricher(domain.CatalogEntry{
				Name:        base,
				Description: "mô tả",
			})

			got := svc.Enrich(context.Background(), []string{tc.query})

			if tc.wantMatch {
				if got == NoFoodInfo {
					t.Fatal("expected near-match, got the no-info sentinel")
				}
				if !strings.Contains(got, "gần giống với") {
					t.Errorf("approximate match must be labeled: %q", got)
				}
			} else if got != NoFoodInfo {
				t.Errorf("expected the no-info sentinel, got %q", got)
			}
		})
	}
}

func TestEnrichNoMatchYieldsSentinel(t *testing.T) {
	svc := newTestEnricher(domain.CatalogEntry{Name: "Bánh Mì"})

	if got := svc.Enrich(context.Background(), []string{"sushi"}); got != NoFoodInfo {
		t.Errorf("got %q, want the no-info sentinel", got)
	}
}

func TestEnrichEmptyInputs(t *testing.T) {
	svc := newTestEnricher(domain.CatalogEntry{Name: "Bánh Mì"})

	if got := svc.Enrich(context.Background(), nil); got != NoFoodInfo {
		t.Errorf("got %q, want the no-info sentinel", got)
	}
}

func TestEnrichLoaderFailureDegrades(t *testing.T) {
	svc := NewEnrichmentService(&fakeLoader{err: context.DeadlineExceeded}, newTestLogger())

	if got := svc.Enrich(context.Background(), []string{"phở"}); got != NoFoodInfo {
		t.Errorf("got %q, want the no-info sentinel", got)
	}
}

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		a, b string
		want float64
	}{
		{"phở", "phở", 1},
		{"", "", 1},
		{"abcd", "abce", 0.75},
	}

	for _, tc := range testCases {
		if got := similarity(tc.a, tc.b); got != tc.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
