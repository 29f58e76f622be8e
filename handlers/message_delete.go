package handlers

import (
	"log"

	"starboard-bot/bot"
	"starboard-bot/models"

	"github.com/bwmarrin/discordgo"
)

// MessageDelete evicts deleted messages from the cache and re-reconciles, so
// starboards with link_deletes tear their mirrors down.
func MessageDelete(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageDelete) {
	return func(s *discordgo.Session, m *discordgo.MessageDelete) {
		if m.GuildID == "" {
			return
		}

		ids, err := parseIDs(m.GuildID, m.ChannelID, m.ID)
		if err != nil {
			log.Printf("MessageDelete: %v", err)
			return
		}

		b.Cache.Evict(ids[2])

		ev := models.MessageDeleted{GuildID: ids[0], ChannelID: ids[1], MessageID: ids[2]}
		if err := b.Reconciler.OnMessageDeleted(ev); err != nil {
			log.Printf("MessageDelete: error re-syncing message %s: %v", m.ID, err)
		}
	}
}
