package starboard

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"starboard-bot/models"
)

const zeroWidthSpace = "​"

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// PlainText builds the mirror's first line: the score, the source channel,
// and lock/freeze markers. This line is always kept up to date, even when
// the source message can no longer be resolved.
func PlainText(sb *models.Starboard, channelID int64, points int, dec Decision) string {
	emoji := sb.DisplayEmoji
	if emoji == "" {
		emoji = "⭐"
	}
	text := fmt.Sprintf("**%s %d | <#%d>**", emoji, points, channelID)
	if dec.Forced {
		text += " 🔒"
	}
	if dec.Frozen {
		text += " ❄️"
	}
	return text
}

// Render builds the mirror content for a live source message: the plain-text
// line plus an embed carrying the author, the message text, a jump link and
// any attachments. Images are inlined unless the source channel is NSFW or
// the attachment is a spoiler.
func Render(live *discordgo.Message, sb *models.Starboard, nsfw bool, channelID int64, points int, dec Decision) (string, *discordgo.MessageEmbed) {
	content := live.Content
	if len(content) > 2048 {
		content = content[:2044] + " ..."
	}

	embed := &discordgo.MessageEmbed{
		Color:       sb.Color,
		Description: content,
		Timestamp:   live.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}
	if live.Author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    live.Author.Username,
			IconURL: live.Author.AvatarURL(""),
		}
	}

	jump := fmt.Sprintf("https://discord.com/channels/%s/%s/%s",
		live.GuildID, live.ChannelID, live.ID)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   zeroWidthSpace,
		Value:  fmt.Sprintf("**[Jump to Message](%s)**", jump),
		Inline: false,
	})

	var links []string
	imageUsed := false
	for _, a := range live.Attachments {
		links = append(links, fmt.Sprintf("**[%s](%s)**", a.Filename, a.URL))
		if imageUsed || nsfw {
			continue
		}
		if isImageURL(a.URL) && !strings.HasPrefix(a.Filename, "SPOILER_") {
			embed.Image = &discordgo.MessageEmbedImage{URL: a.URL}
			imageUsed = true
		}
	}
	if len(links) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  zeroWidthSpace,
			Value: strings.Join(links, "\n"),
		})
	}

	return PlainText(sb, channelID, points, dec), embed
}

// TrashedEmbed replaces a mirror's content while its source is suppressed.
func TrashedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Trashed Message",
		Description: "This message was trashed by a moderator.",
	}
}

func isImageURL(url string) bool {
	lower := strings.ToLower(url)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
