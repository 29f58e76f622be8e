package handlers

import (
	"log"

	"starboard-bot/bot"
	"starboard-bot/models"

	"github.com/bwmarrin/discordgo"
)

// MessageUpdate keeps the cache fresh and re-reconciles edited messages.
func MessageUpdate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageUpdate) {
	return func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		if m.GuildID == "" {
			return
		}

		ids, err := parseIDs(m.GuildID, m.ChannelID, m.ID)
		if err != nil {
			log.Printf("MessageUpdate: %v", err)
			return
		}

		// Update events can carry partial payloads; only a full message
		// replaces the cached copy, otherwise the stale entry is dropped.
		if m.Message != nil && m.Author != nil {
			b.Cache.Refresh(m.Message)
		} else {
			b.Cache.Evict(ids[2])
		}

		ev := models.MessageEdited{GuildID: ids[0], ChannelID: ids[1], MessageID: ids[2]}
		if err := b.Reconciler.OnMessageEdited(ev); err != nil {
			log.Printf("MessageUpdate: error re-syncing message %s: %v", m.ID, err)
		}
	}
}
