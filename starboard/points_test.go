package starboard

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"starboard-bot/models"
)

func testStarboard() *models.Starboard {
	return &models.Starboard{
		ID:             100,
		GuildID:        1,
		Required:       3,
		RequiredRemove: 0,
		StarEmojis:     []string{"⭐"},
	}
}

func TestCalculatePoints(t *testing.T) {
	msg := &models.Message{MessageID: 500, AuthorID: 10}

	t.Run("CountsDistinctUsers", func(t *testing.T) {
		reactions := []*models.Reaction{
			{Emoji: "⭐", UserIDs: []int64{11, 12, 13}},
		}
		assert.Equal(t, 3, CalculatePoints(msg, reactions, testStarboard()))
	})

	t.Run("UserCountsOncePerMessage", func(t *testing.T) {
		// One user reacting with two qualifying emoji variants is still
		// one vote.
		sb := testStarboard()
		sb.StarEmojis = []string{"⭐", "🌟"}
		reactions := []*models.Reaction{
			{Emoji: "⭐", UserIDs: []int64{11, 12}},
			{Emoji: "🌟", UserIDs: []int64{11, 13}},
		}
		assert.Equal(t, 3, CalculatePoints(msg, reactions, sb))
	})

	t.Run("NonStarEmojiIgnored", func(t *testing.T) {
		reactions := []*models.Reaction{
			{Emoji: "👍", UserIDs: []int64{11, 12, 13}},
			{Emoji: "⭐", UserIDs: []int64{14}},
		}
		assert.Equal(t, 1, CalculatePoints(msg, reactions, testStarboard()))
	})

	t.Run("NonStarEmojiDoesNotConsumeVote", func(t *testing.T) {
		sb := testStarboard()
		sb.StarEmojis = []string{"⭐", "👍"}
		reactions := []*models.Reaction{
			{Emoji: "🎉", UserIDs: []int64{11}},
			{Emoji: "⭐", UserIDs: []int64{11}},
		}
		assert.Equal(t, 1, CalculatePoints(msg, reactions, sb))
	})

	t.Run("AuthorExcludedWithoutSelfStar", func(t *testing.T) {
		// Scenario: the author stars their own message alongside three
		// other users.
		reactions := []*models.Reaction{
			{Emoji: "⭐", UserIDs: []int64{10, 11, 12, 13}},
		}
		assert.Equal(t, 3, CalculatePoints(msg, reactions, testStarboard()))
	})

	t.Run("AuthorCountedWithSelfStar", func(t *testing.T) {
		sb := testStarboard()
		sb.SelfStar = true
		reactions := []*models.Reaction{
			{Emoji: "⭐", UserIDs: []int64{10, 11}},
		}
		assert.Equal(t, 2, CalculatePoints(msg, reactions, sb))
	})

	t.Run("EmptyReactions", func(t *testing.T) {
		assert.Equal(t, 0, CalculatePoints(msg, nil, testStarboard()))
	})
}

func TestCalculatePointsOrderIndependent(t *testing.T) {
	sb := testStarboard()
	sb.StarEmojis = []string{"⭐", "🌟", "✨"}
	msg := &models.Message{MessageID: 500, AuthorID: 10}

	reactions := []*models.Reaction{
		{Emoji: "⭐", UserIDs: []int64{10, 11, 12, 13, 14}},
		{Emoji: "🌟", UserIDs: []int64{11, 15, 16}},
		{Emoji: "✨", UserIDs: []int64{12, 16, 17}},
		{Emoji: "👍", UserIDs: []int64{18, 19}},
	}
	want := CalculatePoints(msg, reactions, sb)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]*models.Reaction, len(reactions))
		copy(shuffled, reactions)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, CalculatePoints(msg, shuffled, sb))
	}
}
