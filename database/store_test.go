package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starboard-bot/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedTracked creates a guild, a user, a tracked message and a starboard,
// the minimum rows most operations hang off.
func seedTracked(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.CreateGuild(1))
	require.NoError(t, s.CreateUser(10, false))
	require.NoError(t, s.CreateMember(10, 1))
	require.NoError(t, s.CreateMessage(&models.Message{
		MessageID: 500, GuildID: 1, ChannelID: 50, AuthorID: 10,
	}))
	require.NoError(t, s.CreateStarboard(&models.Starboard{
		ID: 100, GuildID: 1, Required: 3, StarEmojis: []string{"⭐"},
	}))
}

func TestGuildRoundtrip(t *testing.T) {
	s := newTestStore(t)

	missing, err := s.GetGuild(1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.CreateGuild(1))
	require.NoError(t, s.SetLogChannel(1, 42))

	g, err := s.GetGuild(1)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, int64(42), g.LogChannel)
}

func TestStarboardRoundtrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateGuild(1))

	want := &models.Starboard{
		ID:             100,
		GuildID:        1,
		Required:       5,
		RequiredRemove: 1,
		SelfStar:       true,
		LinkEdits:      true,
		StarEmojis:     []string{"⭐", "🌟"},
		DisplayEmoji:   "🌟",
		Color:          0xFFD700,
		Regex:          "^keep",
		ExcludeRegex:   "drop$",
		Autoreact:      true,
	}
	require.NoError(t, s.CreateStarboard(want))

	got, err := s.GetStarboard(100)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStarboardUpdatePreservesLinks(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateStarboardMessage(9001, 500, 100))

	// Reconfiguring a starboard must not cascade into its mirror links.
	require.NoError(t, s.CreateStarboard(&models.Starboard{
		ID: 100, GuildID: 1, Required: 7, StarEmojis: []string{"⭐"},
	}))

	link, err := s.GetStarboardMessage(500, 100)
	require.NoError(t, err)
	require.NotNil(t, link)

	sb, err := s.GetStarboard(100)
	require.NoError(t, err)
	assert.Equal(t, 7, sb.Required)
}

func TestDeleteStarboardCascadesLinks(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateStarboardMessage(9001, 500, 100))

	require.NoError(t, s.DeleteStarboard(100))

	link, err := s.GetStarboardMessageByMirror(9001)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestDeleteMessageCascades(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateStarboardMessage(9001, 500, 100))
	_, err := s.AddReaction(500, "⭐", 10)
	require.NoError(t, err)

	require.NoError(t, s.DeleteMessage(500))

	link, err := s.GetStarboardMessageByMirror(9001)
	require.NoError(t, err)
	assert.Nil(t, link)

	reactions, err := s.GetReactions(500)
	require.NoError(t, err)
	assert.Empty(t, reactions)
}

func TestDeleteUserClearsAuthor(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)

	require.NoError(t, s.DeleteUser(10))

	m, err := s.GetMessage(500)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Zero(t, m.AuthorID)
}

func TestLinkUniquePerPair(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateStarboardMessage(9001, 500, 100))

	err := s.CreateStarboardMessage(9002, 500, 100)
	assert.Error(t, err, "one mirror per (message, starboard) pair")
}

func TestAddReactionDeduplicates(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateUser(11, false))

	added, err := s.AddReaction(500, "⭐", 11)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddReaction(500, "⭐", 11)
	require.NoError(t, err)
	assert.False(t, added, "repeated reaction is not recorded twice")

	reactions, err := s.GetReactions(500)
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.Equal(t, []int64{11}, reactions[0].UserIDs)
}

func TestRemoveReactionUser(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateUser(11, false))
	_, err := s.AddReaction(500, "⭐", 11)
	require.NoError(t, err)

	removed, err := s.RemoveReactionUser(500, "⭐", 11)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveReactionUser(500, "⭐", 11)
	require.NoError(t, err)
	assert.False(t, removed)

	reactions, err := s.GetReactions(500)
	require.NoError(t, err)
	assert.Empty(t, reactions, "emptied reaction rows are cleaned up")
}

func TestMessageFlagsRoundtrip(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)

	require.NoError(t, s.SetForced(500, []int64{100, 200}))
	require.NoError(t, s.SetTrashed(500, true))
	require.NoError(t, s.SetFrozen(500, true))
	require.NoError(t, s.SetMessagePoints(500, 9))

	m, err := s.GetMessage(500)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []int64{100, 200}, m.Forced)
	assert.True(t, m.Trashed)
	assert.True(t, m.Frozen)
	assert.Equal(t, 9, m.Points)
	assert.True(t, m.ForcedOn(100))
	assert.False(t, m.ForcedOn(300))
}

func TestGetLinkedOrigIDs(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)
	require.NoError(t, s.CreateMessage(&models.Message{
		MessageID: 501, GuildID: 1, ChannelID: 50, AuthorID: 10,
	}))
	require.NoError(t, s.CreateStarboardMessage(9001, 500, 100))
	require.NoError(t, s.CreateStarboardMessage(9002, 501, 100))

	ids, err := s.GetLinkedOrigIDs(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{500, 501}, ids)

	ids, err = s.GetLinkedOrigIDs(2)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAddMemberStarsFloorsAtZero(t *testing.T) {
	s := newTestStore(t)
	seedTracked(t, s)

	require.NoError(t, s.AddMemberStars(10, 1, 1, 2))
	require.NoError(t, s.AddMemberStars(10, 1, -5, -5))

	m, err := s.GetMember(10, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Zero(t, m.StarsGiven)
	assert.Zero(t, m.StarsReceived)
}

func TestGetStarboardGuildIDs(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateGuild(1))
	require.NoError(t, s.CreateGuild(2))
	require.NoError(t, s.CreateStarboard(&models.Starboard{ID: 100, GuildID: 1, StarEmojis: []string{"⭐"}}))
	require.NoError(t, s.CreateStarboard(&models.Starboard{ID: 101, GuildID: 1, StarEmojis: []string{"⭐"}}))
	require.NoError(t, s.CreateStarboard(&models.Starboard{ID: 200, GuildID: 2, StarEmojis: []string{"⭐"}}))

	ids, err := s.GetStarboardGuildIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}
