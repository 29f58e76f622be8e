package command

import (
	"fmt"
	"log"
	"strconv"

	"starboard-bot/models"
	"starboard-bot/starboard"
	"starboard-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// ResyncCommand defines the structure for the /resync command.
type ResyncCommand struct {
	Reconciler *starboard.Reconciler
	Auth       *utils.Auth
}

// Definition returns the application command definition.
func (c *ResyncCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "resync",
		Description: "Re-sync a message with this server's starboards",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "message_id",
				Description: "The ID of the message to re-sync",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
			{
				Name:        "channel",
				Description: "The channel the message is in (defaults to the current channel)",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    false,
			},
		},
	}
}

// Handler runs the /resync command.
func (c *ResyncCommand) Handler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !c.Auth.CheckPermission(i, "admin") {
		respondEphemeral(s, i, "You don't have permission to run this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	var rawMessageID string
	channelID := i.ChannelID
	for _, opt := range options {
		switch opt.Name {
		case "message_id":
			rawMessageID = opt.StringValue()
		case "channel":
			channelID = opt.ChannelValue(nil).ID
		}
	}

	messageID, err := strconv.ParseInt(rawMessageID, 10, 64)
	if err != nil {
		respondEphemeral(s, i, "Error: that doesn't look like a message ID.")
		return
	}
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		respondEphemeral(s, i, "Error: this command can only be used in a server.")
		return
	}
	chanID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		respondEphemeral(s, i, "Error: invalid channel.")
		return
	}

	// Respond to the interaction immediately; the re-sync may take a
	// few remote calls.
	respondEphemeral(s, i, fmt.Sprintf("Re-syncing message **%s**...", rawMessageID))

	ev := models.ExplicitResync{GuildID: guildID, ChannelID: chanID, MessageID: messageID}
	if err := c.Reconciler.OnResync(ev); err != nil {
		utils.Error("ResyncCommand", "Resync", fmt.Sprintf("Error re-syncing message %s: %v", rawMessageID, err))
		followupEphemeral(s, i, "Re-sync finished with errors; check the log channel.")
		return
	}
	followupEphemeral(s, i, "Re-sync complete.")
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}

// Handler runs the /ping command.
func (c *PingCommand) Handler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeral(s, i, "Pong!")
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Printf("Error sending followup message: %v", err)
	}
}
