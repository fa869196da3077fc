package service

import (
	"fmt"
	"strings"

	"github.com/truegift/truegift-rag/internal/domain"
)

// The food label in every synthesized caption sits between these two
// markers. FoodNameFromCaption is the only reader of this contract; new
// consumers should read CaptionFacts instead of parsing captions.
const (
	captionFoodMarker = "đăng ảnh món "
	captionDateMarker = " vào ngày "
)

// SynthesizeCaption builds the deterministic indexed sentence for a photo
// plus the structured facts that downstream grouping consumes.
func SynthesizeCaption(photo *domain.Photo, cls domain.Classification) (string, domain.CaptionFacts) {
	ownership := domain.OwnershipOf(photo)
	date := postedDate(photo.CreatedAt)

	kind := "đồ uống/khác"
	if cls.IsFood {
		kind = "thức ăn"
	}

	caption := fmt.Sprintf(
		"%s (%s) %s%s%s%s. Món ăn này thuộc loại %s.",
		photo.UserName, ownershipQualifier(ownership),
		captionFoodMarker, cls.Label, captionDateMarker, date,
		kind,
	)

	facts := domain.CaptionFacts{
		FoodName:   cls.Label,
		PosterName: photo.UserName,
		PostedDate: date,
		Ownership:  ownership,
		IsFood:     cls.IsFood,
	}

	return caption, facts
}

func ownershipQualifier(o domain.Ownership) string {
	switch o {
	case domain.OwnershipSelf:
		return "bạn"
	case domain.OwnershipFriend:
		return "bạn bè"
	default:
		return "người dùng khác"
	}
}

// postedDate keeps only the date part of an ISO timestamp.
func postedDate(createdAt string) string {
	if len(createdAt) >= 10 {
		return createdAt[:10]
	}
	return createdAt
}

// FoodNameFromCaption recovers the food label from a synthesized caption.
// Fallback for documents indexed before structured facts were stored with
// the payload. Returns "" when the caption does not follow the contract.
func FoodNameFromCaption(caption string) string {
	start := strings.Index(caption, captionFoodMarker)
	if start < 0 {
		return ""
	}
	rest := caption[start+len(captionFoodMarker):]
	end := strings.Index(rest, captionDateMarker)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
