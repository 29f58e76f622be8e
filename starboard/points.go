// Package starboard implements the scoring and mirror reconciliation engine:
// messages that collect enough star reactions from distinct users are copied
// into configured starboard channels and kept in sync as reactions, edits and
// deletions occur on either side of the mirror.
package starboard

import "starboard-bot/models"

// CalculatePoints derives a message's score for one starboard from its raw
// reaction data. Each user contributes at most one point, no matter how many
// qualifying emoji variants they reacted with; a user's non-qualifying
// reactions never consume their vote. The author's own reactions count only
// when self-star is enabled. The result does not depend on reaction order.
func CalculatePoints(msg *models.Message, reactions []*models.Reaction, sb *models.Starboard) int {
	counted := make(map[int64]struct{})
	points := 0
	for _, r := range reactions {
		if !sb.HasEmoji(r.Emoji) {
			continue
		}
		for _, userID := range r.UserIDs {
			if _, ok := counted[userID]; ok {
				continue
			}
			if !sb.SelfStar && userID == msg.AuthorID {
				continue
			}
			counted[userID] = struct{}{}
			points++
		}
	}
	return points
}
