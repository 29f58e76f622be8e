package database

import (
	"database/sql"
	"fmt"

	"starboard-bot/models"
)

// AddReaction records one (emoji, user) pair on a message. The reaction row
// is created on first use. Returns true if the user was newly recorded for
// this emoji, false if the pair already existed.
func (s *Store) AddReaction(messageID int64, emoji string, userID int64) (bool, error) {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO reactions (emoji, message_id) VALUES (?, ?)`,
		emoji, messageID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create reaction on message %d: %w", messageID, err)
	}

	var reactionID int64
	err = s.db.QueryRow(
		`SELECT id FROM reactions WHERE message_id = ? AND emoji = ?`,
		messageID, emoji,
	).Scan(&reactionID)
	if err != nil {
		return false, fmt.Errorf("failed to look up reaction on message %d: %w", messageID, err)
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO reaction_users (reaction_id, user_id) VALUES (?, ?)`,
		reactionID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record reaction user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check reaction user insert: %w", err)
	}
	return n > 0, nil
}

// RemoveReactionUser drops one (emoji, user) pair from a message. Returns
// true if a pair was actually removed. An emptied reaction row is cleaned up.
func (s *Store) RemoveReactionUser(messageID int64, emoji string, userID int64) (bool, error) {
	var reactionID int64
	err := s.db.QueryRow(
		`SELECT id FROM reactions WHERE message_id = ? AND emoji = ?`,
		messageID, emoji,
	).Scan(&reactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up reaction on message %d: %w", messageID, err)
	}

	res, err := s.db.Exec(
		`DELETE FROM reaction_users WHERE reaction_id = ? AND user_id = ?`,
		reactionID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove reaction user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check reaction user delete: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM reactions WHERE id = ?
         AND NOT EXISTS (SELECT 1 FROM reaction_users WHERE reaction_id = ?)`,
		reactionID, reactionID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clean up empty reaction %d: %w", reactionID, err)
	}
	return n > 0, nil
}

// GetReactions returns all reactions on a message with their reacting users.
func (s *Store) GetReactions(messageID int64) ([]*models.Reaction, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.emoji, r.message_id, ru.user_id
         FROM reactions r
         LEFT JOIN reaction_users ru ON ru.reaction_id = r.id
         WHERE r.message_id = ?
         ORDER BY r.id`,
		messageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions for message %d: %w", messageID, err)
	}
	defer rows.Close()

	byID := make(map[int64]*models.Reaction)
	var reactions []*models.Reaction
	for rows.Next() {
		var id, msgID int64
		var emoji string
		var userID sql.NullInt64
		if err := rows.Scan(&id, &emoji, &msgID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction row: %w", err)
		}
		r, ok := byID[id]
		if !ok {
			r = &models.Reaction{ID: id, Emoji: emoji, MessageID: msgID}
			byID[id] = r
			reactions = append(reactions, r)
		}
		if userID.Valid {
			r.UserIDs = append(r.UserIDs, userID.Int64)
		}
	}
	return reactions, rows.Err()
}
