package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/truegift/truegift-rag/internal/catalog"
	"github.com/truegift/truegift-rag/internal/domain"
	"github.com/truegift/truegift-rag/internal/logger"
)

// NoFoodInfo is the fixed sentinel returned when no food name matched any
// catalog entry.
const NoFoodInfo = "Không có thông tin thêm về các món ăn."

// fuzzyMatchCutoff is the minimum normalized similarity for an approximate
// catalog match. No match below this is ever accepted.
const fuzzyMatchCutoff = 0.8

// EnrichmentService resolves food names against the catalog and renders the
// enrichment block for suggestion prompts.
type EnrichmentService struct {
	loader catalog.Loader
	logger *logger.Logger
}

// NewEnrichmentService creates an EnrichmentService.
func NewEnrichmentService(loader catalog.Loader, log *logger.Logger) *EnrichmentService {
	return &EnrichmentService{
		loader: loader,
		logger: log,
	}
}

func (s *EnrichmentService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Enrich looks each food name up in the catalog, exact match first, then an
// approximate match against all entries. A lookup miss degrades to a smaller
// result, never an error; a catalog load failure degrades to the sentinel.
func (s *EnrichmentService) Enrich(ctx context.Context, foodNames []string) string {
	if len(foodNames) == 0 {
		return NoFoodInfo
	}

	entries, err := s.loader.Load()
	if err != nil {
		s.log(ctx).WithError(err).Warn("Failed to load food catalog")
		return NoFoodInfo
	}
	if len(entries) == 0 {
		return NoFoodInfo
	}

	normalized := make([]string, len(entries))
	for i, e := range entries {
		normalized[i] = catalog.Normalize(e.Name)
	}

	var lines []string
	for _, name := range foodNames {
		entry, approximate, ok := matchEntry(name, entries, normalized)
		if !ok {
			continue
		}
		lines = append(lines, renderEntry(entry, name, approximate))
	}

	if len(lines) == 0 {
		return NoFoodInfo
	}
	return strings.Join(lines, "\n")
}

// matchEntry finds the catalog entry for a food name. Exact normalized match
// wins; otherwise the single best approximate match is accepted only at or
// above the similarity cutoff.
func matchEntry(name string, entries []domain.CatalogEntry, normalized []string) (*domain.CatalogEntry, bool, bool) {
	target := catalog.Normalize(name)
	if target == "" {
		return nil, false, false
	}

	for i, n := range normalized {
		if n == target {
			return &entries[i], false, true
		}
	}

	bestIdx := -1
	bestScore := 0.0
	for i, n := range normalized {
		score := similarity(target, n)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestScore >= fuzzyMatchCutoff {
		return &entries[bestIdx], true, true
	}

	return nil, false, false
}

// similarity is 1 minus the Levenshtein distance scaled by the longer
// string's rune length.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func renderEntry(entry *domain.CatalogEntry, queried string, approximate bool) string {
	name := entry.Name
	if approximate {
		name = fmt.Sprintf("%s (gần giống với %s)", entry.Name, queried)
	}

	parts := []string{fmt.Sprintf("- %s", name)}
	if entry.Description != "" {
		parts = append(parts, entry.Description)
	}
	if entry.Price != "" {
		parts = append(parts, fmt.Sprintf("Giá: %s", entry.Price))
	}
	if entry.PopularAddress != "" {
		parts = append(parts, fmt.Sprintf("Địa chỉ nổi tiếng: %s", entry.PopularAddress))
	}
	return strings.Join(parts, ". ")
}
