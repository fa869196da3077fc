package service

import (
	"strings"
	"testing"

	"github.com/truegift/truegift-rag/internal/domain"
)

func TestSynthesizeCaption(t *testing.T) {
	testCases := []struct {
		name          string
		photo         domain.Photo
		cls           domain.Classification
		wantQualifier string
		wantKind      string
	}{
		{
			name: "own food photo",
			photo: domain.Photo{
				UserName:   "Hoa Thanh",
				CreatedAt:  "2025-06-01T09:30:00Z",
				IsOwnPhoto: true,
			},
			cls:           domain.Classification{Label: "phở", IsFood: true},
			wantQualifier: "bạn",
			wantKind:      "thức ăn",
		},
		{
			name: "friend non-food photo",
			photo: domain.Photo{
				UserName:      "Super Admin",
				CreatedAt:     "2025-06-02T12:00:00Z",
				IsFriendPhoto: true,
			},
			cls:           domain.Classification{Label: "trà sữa", IsFood: false},
			wantQualifier: "bạn bè",
			wantKind:      "đồ uống/khác",
		},
		{
			name: "other user",
			photo: domain.Photo{
				UserName:  "Ai Đó",
				CreatedAt: "2025-06-03T08:00:00Z",
			},
			cls:           domain.Classification{Label: "bún chả", IsFood: true},
			wantQualifier: "người dùng khác",
			wantKind:      "thức ăn",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			caption, facts := SynthesizeCaption(&tc.photo, tc.cls)

			if !strings.Contains(caption, tc.photo.UserName) {
				t.Errorf("caption missing poster name: %q", caption)
			}
			if !strings.Contains(caption, "("+tc.wantQualifier+")") {
				t.Errorf("caption missing qualifier %q: %q", tc.wantQualifier, caption)
			}
			if !strings.Contains(caption, tc.wantKind) {
				t.Errorf("caption missing kind %q: %q", tc.wantKind, caption)
			}
			if !strings.Contains(caption, tc.photo.CreatedAt[:10]) {
				t.Errorf("caption missing date: %q", caption)
			}

			if facts.FoodName != tc.cls.Label {
				t.Errorf("facts.FoodName = %q, want %q", facts.FoodName, tc.cls.Label)
			}
			if facts.PosterName != tc.photo.UserName {
				t.Errorf("facts.PosterName = %q, want %q", facts.PosterName, tc.photo.UserName)
			}
			if facts.IsFood != tc.cls.IsFood {
				t.Errorf("facts.IsFood = %v, want %v", facts.IsFood, tc.cls.IsFood)
			}
		})
	}
}

func TestFoodNameFromCaptionRoundTrip(t *testing.T) {
	photo := domain.Photo{
		UserName:   "Hoa Thanh",
		CreatedAt:  "2025-06-01T09:30:00Z",
		IsOwnPhoto: true,
	}
	cls := domain.Classification{Label: "bún bò Huế", IsFood: true}

	caption, _ := SynthesizeCaption(&photo, cls)

	if got := FoodNameFromCaption(caption); got != "bún bò Huế" {
		t.Errorf("FoodNameFromCaption = %q, want %q", got, "bún bò Huế")
	}
}

func TestFoodNameFromCaptionMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		caption string
	}{
		{"empty caption", ""},
		{"no food marker", "Hoa Thanh chia sẻ một bức ảnh"},
		{"no date marker", "Hoa Thanh (bạn) đăng ảnh món phở"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FoodNameFromCaption(tc.caption); got != "" {
				t.Errorf("FoodNameFromCaption(%q) = %q, want empty", tc.caption, got)
			}
		})
	}
}
