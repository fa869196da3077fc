package prompts

import "strings"

// Prompt keys consumed by the suggestion endpoint. Each key selects both a
// template and a retrieval mode.
const (
	KeyLikeFriends = "like_friends"
	KeyUniqueToday = "unique_today"
	KeySpecialDay  = "special_day"
)

// RetrievalMode selects which slice of the vector index a prompt draws from.
type RetrievalMode string

const (
	ModeOwn     RetrievalMode = "own"
	ModeFriends RetrievalMode = "friends"
	ModeMixed   RetrievalMode = "mixed"
)

// templates maps prompt keys to their Vietnamese suggestion templates.
// {context} is replaced with the grouped food context block and {food_info}
// with the catalog enrichment text.
var templates = map[string]string{
	KeyLikeFriends: `Dựa trên các món ăn bạn bè bạn đã chia sẻ:
{context}

Thông tin thêm về các món ăn:
{food_info}

Hãy gợi ý một món ăn giống phong cách bạn bè bạn nhưng phù hợp với khẩu vị Gen Z.
Hãy viết ngắn gọn, thêm biểu cảm dễ thương, icon và khuyến khích dùng thử. Dưới 60 từ.
`,

	KeyUniqueToday: `Từ các món ăn gần đây của bạn và bạn bè:
{context}

Thông tin thêm về các món ăn:
{food_info}

Hãy gợi ý một món ăn từ các món ăn gần đây của bạn và bạn bè, mang vibe Gen Z.
Thêm các thông tin cơ bản về món ăn đó, ví dụ như tên món, nơi bán, giá cả, địa chỉ, thời gian mở cửa, ...
Hãy viết ngắn gọn dưới 60 từ.
`,

	KeySpecialDay: `Dựa trên các món ăn trước đây:
{context}

Thông tin thêm về các món ăn:
{food_info}

Nếu hôm nay là một ngày đặc biệt, bạn sẽ nên ăn gì? Hãy gợi ý món ăn phù hợp, cảm xúc Gen Z, thêm chút thơ mộng và icon nha!
`,
}

// modes maps prompt keys to retrieval modes. like_friends draws only from
// friends' documents, special_day only from the user's own, unique_today
// from both.
var modes = map[string]RetrievalMode{
	KeyLikeFriends: ModeFriends,
	KeyUniqueToday: ModeMixed,
	KeySpecialDay:  ModeOwn,
}

// keyOrder keeps the listing deterministic.
var keyOrder = []string{KeyLikeFriends, KeyUniqueToday, KeySpecialDay}

// Template returns the template for a prompt key and whether it exists.
func Template(key string) (string, bool) {
	t, ok := templates[key]
	return t, ok
}

// ModeFor returns the retrieval mode for a prompt key. Unknown keys default
// to ModeOwn; callers are expected to reject unknown keys via Template first.
func ModeFor(key string) RetrievalMode {
	if m, ok := modes[key]; ok {
		return m
	}
	return ModeOwn
}

// Render substitutes the context and enrichment blocks into a template.
func Render(template, context, foodInfo string) string {
	out := strings.ReplaceAll(template, "{context}", context)
	return strings.ReplaceAll(out, "{food_info}", foodInfo)
}

// PromptOption describes one available prompt key for UI listing.
type PromptOption struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// ListAvailable returns the available prompt keys with a short description
// taken from the first line of each template.
func ListAvailable() []PromptOption {
	options := make([]PromptOption, 0, len(keyOrder))
	for _, key := range keyOrder {
		first := templates[key]
		if idx := strings.IndexByte(first, '\n'); idx >= 0 {
			first = first[:idx]
		}
		if runes := []rune(first); len(runes) > 80 {
			first = string(runes[:80])
		}
		options = append(options, PromptOption{Key: key, Description: first})
	}
	return options
}

// RetrievalQueryText is the fixed query embedded when retrieving food
// context. Results are narrowed by metadata filters, not by this text.
const RetrievalQueryText = "món ăn"
