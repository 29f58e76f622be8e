package handlers

import (
	"log"

	"starboard-bot/bot"
	"starboard-bot/models"

	"github.com/bwmarrin/discordgo"
)

// ReactionAdd feeds new reactions into the starboard engine.
func ReactionAdd(b *bot.Bot) func(s *discordgo.Session, e *discordgo.MessageReactionAdd) {
	return func(s *discordgo.Session, e *discordgo.MessageReactionAdd) {
		if e.GuildID == "" {
			return
		}
		// The bot's own autoreacts must not feed back into scoring.
		if s.State.User != nil && e.UserID == s.State.User.ID {
			return
		}

		ids, err := parseIDs(e.GuildID, e.ChannelID, e.MessageID, e.UserID)
		if err != nil {
			log.Printf("ReactionAdd: %v", err)
			return
		}

		ev := models.ReactionAdded{
			GuildID:   ids[0],
			ChannelID: ids[1],
			MessageID: ids[2],
			UserID:    ids[3],
			UserIsBot: e.Member != nil && e.Member.User != nil && e.Member.User.Bot,
			Emoji:     e.Emoji.APIName(),
		}
		if err := b.Reconciler.OnReactionAdded(ev); err != nil {
			log.Printf("ReactionAdd: error processing reaction on message %s: %v", e.MessageID, err)
		}
	}
}
