package repository

import (
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
)

func TestPointIDDeterministic(t *testing.T) {
	testCases := []struct {
		name    string
		photoID string
	}{
		{"numeric id", "12345"},
		{"uuid-style id", "0b7e5c44-9a11-4c29-b0a1-3a3c1f5d9c01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := PointID(tc.photoID)
			second := PointID(tc.photoID)

			if first != second {
				t.Errorf("point ID not stable: %s != %s", first, second)
			}
			if len(first) != 36 {
				t.Errorf("invalid UUID length: got %d, want 36", len(first))
			}
		})
	}
}

func TestPointIDUniqueness(t *testing.T) {
	if PointID("photo-a") == PointID("photo-b") {
		t.Error("different photo IDs must produce different point IDs")
	}
}

func TestDocumentKey(t *testing.T) {
	if got := DocumentKey("42"); got != "photo:42" {
		t.Errorf("DocumentKey = %q, want photo:42", got)
	}
}

func TestBuildFilter(t *testing.T) {
	userID := "1"
	exclude := "2"
	isFood := true

	filter := buildFilter(&PhotoFilter{
		UserID:        &userID,
		ExcludeUserID: &exclude,
		IsFood:        &isFood,
	})

	if filter == nil {
		t.Fatal("filter is nil")
	}
	if len(filter.Must) != 2 {
		t.Errorf("must conditions = %d, want 2", len(filter.Must))
	}
	if len(filter.MustNot) != 1 {
		t.Errorf("must_not conditions = %d, want 1", len(filter.MustNot))
	}
}

func TestBuildFilterEmpty(t *testing.T) {
	if filter := buildFilter(&PhotoFilter{}); filter != nil {
		t.Errorf("empty filter should be nil, got %+v", filter)
	}
}

func TestParsePayload(t *testing.T) {
	raw := map[string]*pb.Value{
		"photo_id":        {Kind: &pb.Value_StringValue{StringValue: "p1"}},
		"user_id":         {Kind: &pb.Value_StringValue{StringValue: "1"}},
		"food_class":      {Kind: &pb.Value_StringValue{StringValue: "phở"}},
		"user_name":       {Kind: &pb.Value_StringValue{StringValue: "Hoa Thanh"}},
		"is_own_photo":    {Kind: &pb.Value_BoolValue{BoolValue: true}},
		"is_friend_photo": {Kind: &pb.Value_BoolValue{BoolValue: false}},
		"is_food":         {Kind: &pb.Value_BoolValue{BoolValue: true}},
		"caption":         {Kind: &pb.Value_StringValue{StringValue: "một bát phở"}},
	}

	p := parsePayload(raw)

	if p.PhotoID != "p1" || p.UserID != "1" || p.FoodClass != "phở" {
		t.Errorf("parsed payload mismatch: %+v", p)
	}
	if !p.IsOwnPhoto || p.IsFriendPhoto || !p.IsFood {
		t.Errorf("parsed flags mismatch: %+v", p)
	}
	if p.Caption != "một bát phở" {
		t.Errorf("caption = %q", p.Caption)
	}
}

func TestParsePayloadNil(t *testing.T) {
	if p := parsePayload(nil); p != nil {
		t.Errorf("nil payload should parse to nil, got %+v", p)
	}
}
