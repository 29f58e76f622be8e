package handlers

import (
	"log"

	"starboard-bot/bot"
	"starboard-bot/models"

	"github.com/bwmarrin/discordgo"
)

// ReactionRemove feeds removed reactions into the starboard engine.
func ReactionRemove(b *bot.Bot) func(s *discordgo.Session, e *discordgo.MessageReactionRemove) {
	return func(s *discordgo.Session, e *discordgo.MessageReactionRemove) {
		if e.GuildID == "" {
			return
		}
		if s.State.User != nil && e.UserID == s.State.User.ID {
			return
		}

		ids, err := parseIDs(e.GuildID, e.ChannelID, e.MessageID, e.UserID)
		if err != nil {
			log.Printf("ReactionRemove: %v", err)
			return
		}

		ev := models.ReactionRemoved{
			GuildID:   ids[0],
			ChannelID: ids[1],
			MessageID: ids[2],
			UserID:    ids[3],
			Emoji:     e.Emoji.APIName(),
		}
		if err := b.Reconciler.OnReactionRemoved(ev); err != nil {
			log.Printf("ReactionRemove: error processing reaction on message %s: %v", e.MessageID, err)
		}
	}
}
