package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
)

func TestTopEmojis(t *testing.T) {
	counts := []entity.EmojiCount{
		{Code: "1f525", Count: 5},
		{Code: "1f44d", Count: 3},
		{Code: "1f389", Count: 3},
		{Code: "1f62e", Count: 1},
	}

	got := TopEmojis(counts, TopEmojiLimit)

	assert.Equal(t, []EmojiStat{
		{EmojiUnifiedCode: "1f525", Count: 5},
		{EmojiUnifiedCode: "1f44d", Count: 3},
		{EmojiUnifiedCode: "1f389", Count: 3},
	}, got)
}

func TestTopEmojisTieKeepsFirstReactionOrder(t *testing.T) {
	counts := []entity.EmojiCount{
		{Code: "1f62e", Count: 1},
		{Code: "1f389", Count: 3},
		{Code: "1f44d", Count: 3},
		{Code: "1f525", Count: 5},
	}

	got := TopEmojis(counts, TopEmojiLimit)

	assert.Equal(t, []string{"1f525", "1f389", "1f44d"}, []string{
		got[0].EmojiUnifiedCode, got[1].EmojiUnifiedCode, got[2].EmojiUnifiedCode,
	})
}

func TestTopEmojisShortAndEmpty(t *testing.T) {
	assert.Len(t, TopEmojis([]entity.EmojiCount{{Code: "1f525", Count: 2}}, 3), 1)

	empty := TopEmojis(nil, 3)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
