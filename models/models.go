package models

import "slices"

// Guild represents a Discord guild known to the bot.
type Guild struct {
	ID         int64 `json:"id"`
	LogChannel int64 `json:"log_channel"` // 0 means no log channel configured
}

// User represents a Discord user.
type User struct {
	ID    int64 `json:"id"`
	IsBot bool  `json:"is_bot"`
}

// Member holds per-(user, guild) star counters.
type Member struct {
	UserID        int64 `json:"user_id"`
	GuildID       int64 `json:"guild_id"`
	StarsGiven    int   `json:"stars_given"`
	StarsReceived int   `json:"stars_received"`
	XP            int   `json:"xp"`
	Level         int   `json:"level"`
}

// Starboard is the configuration for a single starboard channel.
// The ID is the channel ID of the starboard itself.
type Starboard struct {
	ID             int64    `json:"id"`
	GuildID        int64    `json:"guild_id"`
	Required       int      `json:"required"`        // points needed to add a mirror
	RequiredRemove int      `json:"required_remove"` // points at or below which the mirror is removed
	SelfStar       bool     `json:"self_star"`
	AllowBots      bool     `json:"allow_bots"`
	AllowNSFW      bool     `json:"allow_nsfw"`
	LinkEdits      bool     `json:"link_edits"`
	LinkDeletes    bool     `json:"link_deletes"`
	StarEmojis     []string `json:"star_emojis"`
	DisplayEmoji   string   `json:"display_emoji"`
	Color          int      `json:"color"`
	Regex          string   `json:"regex"`         // empty means disabled
	ExcludeRegex   string   `json:"exclude_regex"` // empty means disabled
	Autoreact      bool     `json:"autoreact"`
}

// HasEmoji reports whether the given emoji token counts toward this starboard.
func (s *Starboard) HasEmoji(emoji string) bool {
	return slices.Contains(s.StarEmojis, emoji)
}

// Message is a source message tracked by the bot.
type Message struct {
	MessageID int64   `json:"message_id"`
	GuildID   int64   `json:"guild_id"`
	ChannelID int64   `json:"channel_id"`
	AuthorID  int64   `json:"author_id"` // 0 if the author's account was deleted
	Points    int     `json:"points"`    // last computed score
	IsNSFW    bool    `json:"is_nsfw"`   // channel NSFW state when the message was first seen
	Forced    []int64 `json:"forced"`    // starboard IDs this message is forced onto
	Trashed   bool    `json:"trashed"`
	Frozen    bool    `json:"frozen"`
}

// ForcedOn reports whether the message is forced onto the given starboard.
func (m *Message) ForcedOn(starboardID int64) bool {
	return slices.Contains(m.Forced, starboardID)
}

// StarboardMessage links a source message to its mirror on one starboard.
// The ID is the message ID of the mirror. At most one link may exist per
// (orig message, starboard) pair.
type StarboardMessage struct {
	MirrorID    int64 `json:"mirror_id"`
	OrigID      int64 `json:"orig_id"`
	StarboardID int64 `json:"starboard_id"`
	Points      int   `json:"points"`
}

// Reaction is one emoji on a message together with the users who added it.
type Reaction struct {
	ID        int64   `json:"id"`
	Emoji     string  `json:"emoji"`
	MessageID int64   `json:"message_id"`
	UserIDs   []int64 `json:"user_ids"`
}
