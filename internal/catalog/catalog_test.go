package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileLoaderSkipsErrorEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	data := `[
		{"name": "Phở", "price": "50.000 VND", "description": "Món nước truyền thống", "popular_address": "Hà Nội"},
		{"name": "Bún chả", "price": "45.000 VND", "description": "Bún với chả nướng", "popular_address": "Hà Nội"},
		{"name": "", "price": "", "description": "", "popular_address": ""},
		{"name": "Hỏng", "price": "", "description": "", "popular_address": "", "error": true}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := NewFileLoader(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 usable entries, got %d", len(entries))
	}
	if entries[0].Name != "Phở" || entries[1].Name != "Bún chả" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "missing.json")).Load()
	if err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Phở Bò", "phở bò"},
		{"  bún   chả  ", "bún chả"},
		{"BÁNH\tMÌ", "bánh mì"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
