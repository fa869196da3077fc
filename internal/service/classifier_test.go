package service

import (
	"context"
	"errors"
	"testing"
)

type fakeScorer struct {
	label      string
	confidence float64
	err        error
	calls      int
}

func (f *fakeScorer) ScoreTop1(ctx context.Context, image []byte) (string, float64, error) {
	f.calls++
	return f.label, f.confidence, f.err
}

func TestFallbackClassifierThreshold(t *testing.T) {
	testCases := []struct {
		name         string
		primaryConf  float64
		wantFood     bool
		wantLabel    string
		wantFallback bool
	}{
		{
			name:        "confidence at threshold is accepted",
			primaryConf: 0.6,
			wantFood:    true,
			wantLabel:   "phở",
		},
		{
			name:        "confidence above threshold is accepted",
			primaryConf: 0.95,
			wantFood:    true,
			wantLabel:   "phở",
		},
		{
			name:         "confidence just below threshold falls back",
			primaryConf:  0.59,
			wantFood:     false,
			wantLabel:    "cup",
			wantFallback: true,
		},
		{
			name:         "zero confidence falls back",
			primaryConf:  0,
			wantFood:     false,
			wantLabel:    "cup",
			wantFallback: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			primary := &fakeScorer{label: "phở", confidence: tc.primaryConf}
			general := &fakeScorer{label: "cup", confidence: 0.1}
			classifier := NewFallbackClassifier(primary, general, 0.6)

			cls, err := classifier.Classify(context.Background(), []byte("img"))
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}

			if cls.Label != tc.wantLabel {
				t.Errorf("label = %q, want %q", cls.Label, tc.wantLabel)
			}
			if cls.IsFood != tc.wantFood {
				t.Errorf("isFood = %v, want %v", cls.IsFood, tc.wantFood)
			}
			if tc.wantFallback && general.calls == 0 {
				t.Error("expected general classifier to be called")
			}
			if !tc.wantFallback && general.calls != 0 {
				t.Error("general classifier called despite confident primary")
			}
		})
	}
}

func TestFallbackClassifierGeneralAcceptedUnconditionally(t *testing.T) {
	// The general model's confidence is never compared to the threshold.
	primary := &fakeScorer{label: "phở", confidence: 0.3}
	general := &fakeScorer{label: "laptop", confidence: 0.05}
	classifier := NewFallbackClassifier(primary, general, 0.6)

	cls, err := classifier.Classify(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if cls.Label != "laptop" || cls.IsFood {
		t.Errorf("got (%q, food=%v), want (laptop, food=false)", cls.Label, cls.IsFood)
	}
}

func TestFallbackClassifierNoLabel(t *testing.T) {
	primary := &fakeScorer{}
	general := &fakeScorer{}
	classifier := NewFallbackClassifier(primary, general, 0.6)

	cls, err := classifier.Classify(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if cls.Label != "" || cls.IsFood {
		t.Errorf("got (%q, food=%v), want empty non-food result", cls.Label, cls.IsFood)
	}
}

func TestFallbackClassifierPrimaryErrorFallsBack(t *testing.T) {
	primary := &fakeScorer{err: errors.New("endpoint down")}
	general := &fakeScorer{label: "cup", confidence: 0.4}
	classifier := NewFallbackClassifier(primary, general, 0.6)

	cls, err := classifier.Classify(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if cls.Label != "cup" || cls.IsFood {
		t.Errorf("got (%q, food=%v), want (cup, food=false)", cls.Label, cls.IsFood)
	}
}

func TestFallbackClassifierBothFail(t *testing.T) {
	primary := &fakeScorer{err: errors.New("primary down")}
	general := &fakeScorer{err: errors.New("general down")}
	classifier := NewFallbackClassifier(primary, general, 0.6)

	if _, err := classifier.Classify(context.Background(), []byte("img")); err == nil {
		t.Error("expected error when both classifiers fail")
	}
}
