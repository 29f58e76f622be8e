package utils

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"

	"starboard-bot/database"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

var (
	session   *discordgo.Session
	channelID string
)

// InitLogger initializes the logger with a Discord session.
func InitLogger(s *discordgo.Session) {
	session = s
	channelID = viper.GetString("bot.adminChannelId")
	if channelID == "" {
		log.Println("Warning: bot.adminChannelId is not set in config.yaml. Logging to channel will be disabled.")
	}
}

// Log sends a log message to the admin channel.
func Log(level, module, operation, details string) {
	if session == nil || channelID == "" {
		log.Printf("[%s] Module: %s, Operation: %s, Details: %s", level, module, operation, details)
		return
	}

	var color int
	switch level {
	case "INFO":
		color = ColorInfo
	case "WARN":
		color = ColorWarn
	case "ERROR":
		color = ColorError
	default:
		color = ColorInfo
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Operation",
				Value:  operation,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: details,
			},
		},
	}

	_, err := session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		log.Printf("Error sending log message to Discord: %v", err)
	}
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}

// GuildNotifier delivers policy and permission failures to the log channel a
// guild has configured. Fire-and-forget: delivery problems are only logged.
type GuildNotifier struct {
	Session *discordgo.Session
	Store   *database.Store
}

// GuildLog posts an embed to the guild's configured log channel, if any.
// Severity is "info" or "error".
func (n *GuildNotifier) GuildLog(guildID int64, message string, severity string) {
	guild, err := n.Store.GetGuild(guildID)
	if err != nil {
		log.Printf("GuildNotifier: failed to load guild %d: %v", guildID, err)
		return
	}
	if guild == nil || guild.LogChannel == 0 {
		log.Printf("[guild %d] %s: %s", guildID, severity, message)
		return
	}

	color := ColorInfo
	title := "Info"
	if severity == "error" {
		color = ColorError
		title = "Error"
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	_, err = n.Session.ChannelMessageSendEmbed(strconv.FormatInt(guild.LogChannel, 10), embed)
	if err != nil {
		log.Printf("GuildNotifier: failed to send log to guild %d: %v", guildID, err)
	}
}
