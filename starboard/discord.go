package starboard

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Channel abstracts the remote message primitives the reconciler needs. Each
// call may fail with a permission error or a not-found error; use
// IsPermissionDenied and IsNotFound to classify.
type Channel interface {
	// Send posts a mirror and returns its message ID.
	Send(channelID int64, text string, embed *discordgo.MessageEmbed) (int64, error)
	// Edit updates a mirror. A nil text or embed leaves that part unchanged.
	Edit(channelID, messageID int64, text *string, embed *discordgo.MessageEmbed) error
	Delete(channelID, messageID int64) error
	React(channelID, messageID int64, emoji string) error
}

// Source resolves live messages and channel state, best-effort.
type Source interface {
	// Fetch returns the live message or nil if it cannot be resolved.
	Fetch(guildID, channelID, messageID int64) *discordgo.Message
	ChannelNSFW(channelID int64) bool
}

// Notifier delivers operator-facing notifications for policy and permission
// failures. Fire-and-forget.
type Notifier interface {
	GuildLog(guildID int64, message string, severity string)
}

// sessionChannel implements Channel on a discordgo session.
type sessionChannel struct {
	s *discordgo.Session
}

// NewChannel wraps a session in the Channel interface.
func NewChannel(s *discordgo.Session) Channel {
	return &sessionChannel{s: s}
}

func (c *sessionChannel) Send(channelID int64, text string, embed *discordgo.MessageEmbed) (int64, error) {
	send := &discordgo.MessageSend{Content: text}
	if embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{embed}
	}
	m, err := c.s.ChannelMessageSendComplex(formatID(channelID), send)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable message ID %q: %w", m.ID, err)
	}
	return id, nil
}

func (c *sessionChannel) Edit(channelID, messageID int64, text *string, embed *discordgo.MessageEmbed) error {
	edit := discordgo.NewMessageEdit(formatID(channelID), formatID(messageID))
	if text != nil {
		edit.SetContent(*text)
	}
	if embed != nil {
		edit.SetEmbed(embed)
	}
	_, err := c.s.ChannelMessageEditComplex(edit)
	return err
}

func (c *sessionChannel) Delete(channelID, messageID int64) error {
	return c.s.ChannelMessageDelete(formatID(channelID), formatID(messageID))
}

func (c *sessionChannel) React(channelID, messageID int64, emoji string) error {
	return c.s.MessageReactionAdd(formatID(channelID), formatID(messageID), emoji)
}

// IsNotFound reports whether err means the remote target is already gone.
// Treated as a benign race, not a failure.
func IsNotFound(err error) bool {
	return hasErrCode(err,
		discordgo.ErrCodeUnknownMessage,
		discordgo.ErrCodeUnknownChannel,
		discordgo.ErrCodeUnknownEmoji,
	)
}

// IsPermissionDenied reports whether err means the bot lacks rights for the
// attempted call.
func IsPermissionDenied(err error) bool {
	return hasErrCode(err,
		discordgo.ErrCodeMissingPermissions,
		discordgo.ErrCodeMissingAccess,
	)
}

func hasErrCode(err error, codes ...int) bool {
	var rerr *discordgo.RESTError
	if !errors.As(err, &rerr) || rerr.Message == nil {
		return false
	}
	for _, code := range codes {
		if rerr.Message.Code == code {
			return true
		}
	}
	return false
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
