package handlers

import (
	"log"

	"starboard-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	// Register event handlers
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(ReactionAdd(b))
	b.Session.AddHandler(ReactionRemove(b))
	b.Session.AddHandler(MessageUpdate(b))
	b.Session.AddHandler(MessageDelete(b))

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
}
