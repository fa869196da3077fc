package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/truegift/truegift-rag/internal/domain"
)

// Loader provides read access to the external food catalog. Loads are
// side-effect-free and may be repeated per enrichment call.
type Loader interface {
	Load() ([]domain.CatalogEntry, error)
}

// FileLoader reads the catalog from a crawled JSON file on disk.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given JSON file path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load parses the catalog file, dropping entries flagged as crawl errors.
func (l *FileLoader) Load() ([]domain.CatalogEntry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw []domain.CatalogEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	entries := make([]domain.CatalogEntry, 0, len(raw))
	for _, e := range raw {
		if e.Error || strings.TrimSpace(e.Name) == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Normalize canonicalizes a food name for matching: lowercase with runs of
// whitespace collapsed to a single space.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
