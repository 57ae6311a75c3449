package application

import (
	"sort"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
)

// TopEmojiLimit is the number of emojis shown on a study card.
const TopEmojiLimit = 3

// EmojiStat is one entry of a study's emoji leaderboard.
type EmojiStat struct {
	EmojiUnifiedCode string `json:"emojiUnifiedCode"`
	Count            int    `json:"count"`
}

// TopEmojis ranks counts by frequency, highest first, and keeps at most n.
// Equal counts keep their input order, which repositories return as the order
// of each emoji's first reaction.
func TopEmojis(counts []entity.EmojiCount, n int) []EmojiStat {
	ranked := make([]EmojiStat, 0, len(counts))
	for _, c := range counts {
		ranked = append(ranked, EmojiStat{EmojiUnifiedCode: c.Code, Count: c.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
