package domain

// Photo represents a user-submitted photo fetched from the TrueGift backend.
// The ownership flags are assigned by the photo source relative to the
// authenticated user and are immutable once the batch is fetched.
type Photo struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	CreatedAt string `json:"createdAt"`

	IsOwnPhoto    bool `json:"isOwnPhoto"`
	IsFriendPhoto bool `json:"isFriendPhoto"`
}

// Classification is the ephemeral result of running a photo through the
// classifier fallback chain. Label is empty when neither classifier yielded
// anything.
type Classification struct {
	Label      string
	Confidence float64
	IsFood     bool
}

// Ownership qualifies who posted a photo relative to the viewing user.
type Ownership string

const (
	OwnershipSelf   Ownership = "self"
	OwnershipFriend Ownership = "friend"
	OwnershipOther  Ownership = "other"
)

// OwnershipOf derives the ownership qualifier from the photo flags.
func OwnershipOf(p *Photo) Ownership {
	switch {
	case p.IsOwnPhoto:
		return OwnershipSelf
	case p.IsFriendPhoto:
		return OwnershipFriend
	default:
		return OwnershipOther
	}
}

// CaptionFacts is the structured intermediate emitted alongside the human
// caption at synthesis time. Downstream grouping reads these fields instead
// of parsing the caption back.
type CaptionFacts struct {
	FoodName   string
	PosterName string
	PostedDate string
	Ownership  Ownership
	IsFood     bool
}
