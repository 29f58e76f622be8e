// Package cache provides a best-effort, size and time bounded cache of
// recently seen Discord messages. A miss falls through to the REST API; a
// message that cannot be resolved is reported as absent, never as an error.
package cache

import (
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Messages caches fetched Discord messages by message ID.
type Messages struct {
	lru *expirable.LRU[int64, *discordgo.Message]

	// fetch and channel default to REST calls on the session; tests
	// substitute them.
	fetch   func(channelID, messageID string) (*discordgo.Message, error)
	channel func(channelID string) (*discordgo.Channel, error)
}

// New creates a message cache backed by the given session. A size of zero
// means unlimited entries; a ttl of zero means entries never expire.
func New(s *discordgo.Session, size int, ttl time.Duration) *Messages {
	return &Messages{
		lru: expirable.NewLRU[int64, *discordgo.Message](size, nil, ttl),
		fetch: func(channelID, messageID string) (*discordgo.Message, error) {
			return s.ChannelMessage(channelID, messageID)
		},
		channel: func(channelID string) (*discordgo.Channel, error) {
			if c, err := s.State.Channel(channelID); err == nil {
				return c, nil
			}
			return s.Channel(channelID)
		},
	}
}

// Fetch returns the message, or nil if it cannot be resolved. Absence is a
// valid outcome: the message may be deleted, inaccessible, or evicted
// remotely; callers must treat nil as "not found", not as an error.
func (c *Messages) Fetch(guildID, channelID, messageID int64) *discordgo.Message {
	if m, ok := c.lru.Get(messageID); ok {
		return m
	}

	m, err := c.fetch(strconv.FormatInt(channelID, 10), strconv.FormatInt(messageID, 10))
	if err != nil || m == nil {
		return nil
	}
	if m.GuildID == "" {
		// ChannelMessage does not populate the guild ID.
		m.GuildID = strconv.FormatInt(guildID, 10)
	}
	c.lru.Add(messageID, m)
	return m
}

// ChannelNSFW reports whether a channel is marked NSFW. Unresolvable
// channels are treated as not NSFW.
func (c *Messages) ChannelNSFW(channelID int64) bool {
	ch, err := c.channel(strconv.FormatInt(channelID, 10))
	if err != nil || ch == nil {
		return false
	}
	return ch.NSFW
}

// Refresh replaces the cached copy of a message after an edit.
func (c *Messages) Refresh(m *discordgo.Message) {
	id, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return
	}
	c.lru.Add(id, m)
}

// Evict drops a message from the cache, typically after a delete event.
func (c *Messages) Evict(messageID int64) {
	c.lru.Remove(messageID)
}
