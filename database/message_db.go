package database

import (
	"database/sql"
	"fmt"

	"starboard-bot/models"
)

// CreateMessage inserts a message row if it does not exist yet. Message rows
// are created lazily on the first relevant event.
func (s *Store) CreateMessage(m *models.Message) error {
	var authorID any
	if m.AuthorID != 0 {
		authorID = m.AuthorID
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO messages (id, guild_id, channel_id, author_id, points, is_nsfw, forced, trashed, frozen)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MessageID, m.GuildID, m.ChannelID, authorID,
		m.Points, m.IsNSFW, encodeInt64s(m.Forced), m.Trashed, m.Frozen,
	)
	if err != nil {
		return fmt.Errorf("failed to create message %d: %w", m.MessageID, err)
	}
	return nil
}

// GetMessage returns the message row, or nil if the message is not tracked.
func (s *Store) GetMessage(messageID int64) (*models.Message, error) {
	row := s.db.QueryRow(
		`SELECT id, guild_id, channel_id, author_id, points, is_nsfw, forced, trashed, frozen
         FROM messages WHERE id = ?`,
		messageID,
	)

	var m models.Message
	var authorID sql.NullInt64
	var forced string
	err := row.Scan(&m.MessageID, &m.GuildID, &m.ChannelID, &authorID,
		&m.Points, &m.IsNSFW, &forced, &m.Trashed, &m.Frozen)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message %d: %w", messageID, err)
	}
	m.AuthorID = authorID.Int64
	m.Forced = decodeInt64s(forced)
	return &m, nil
}

// SetMessagePoints stores the last computed score on the message row.
func (s *Store) SetMessagePoints(messageID int64, points int) error {
	_, err := s.db.Exec(`UPDATE messages SET points = ? WHERE id = ?`, points, messageID)
	if err != nil {
		return fmt.Errorf("failed to set points for message %d: %w", messageID, err)
	}
	return nil
}

// SetForced replaces the set of starboards a message is forced onto.
func (s *Store) SetForced(messageID int64, starboardIDs []int64) error {
	_, err := s.db.Exec(`UPDATE messages SET forced = ? WHERE id = ?`,
		encodeInt64s(starboardIDs), messageID)
	if err != nil {
		return fmt.Errorf("failed to set forced for message %d: %w", messageID, err)
	}
	return nil
}

// SetTrashed marks or unmarks a message as moderator-suppressed.
func (s *Store) SetTrashed(messageID int64, trashed bool) error {
	_, err := s.db.Exec(`UPDATE messages SET trashed = ? WHERE id = ?`, trashed, messageID)
	if err != nil {
		return fmt.Errorf("failed to set trashed for message %d: %w", messageID, err)
	}
	return nil
}

// SetFrozen locks or unlocks a message's score.
func (s *Store) SetFrozen(messageID int64, frozen bool) error {
	_, err := s.db.Exec(`UPDATE messages SET frozen = ? WHERE id = ?`, frozen, messageID)
	if err != nil {
		return fmt.Errorf("failed to set frozen for message %d: %w", messageID, err)
	}
	return nil
}

// DeleteMessage removes a message row and, via cascades, its reactions and
// mirror links.
func (s *Store) DeleteMessage(messageID int64) error {
	_, err := s.db.Exec(`DELETE FROM messages WHERE id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}
	return nil
}

// GetStarboardMessage returns the mirror link for one (message, starboard)
// pair, or nil if no mirror exists.
func (s *Store) GetStarboardMessage(origID, starboardID int64) (*models.StarboardMessage, error) {
	row := s.db.QueryRow(
		`SELECT id, orig_id, starboard_id, points FROM starboard_messages
         WHERE orig_id = ? AND starboard_id = ?`,
		origID, starboardID,
	)
	return scanStarboardMessage(row, fmt.Sprintf("%d/%d", origID, starboardID))
}

// GetStarboardMessageByMirror resolves a mirror message ID back to its link,
// so reactions placed on the mirror count toward the source message.
func (s *Store) GetStarboardMessageByMirror(mirrorID int64) (*models.StarboardMessage, error) {
	row := s.db.QueryRow(
		`SELECT id, orig_id, starboard_id, points FROM starboard_messages WHERE id = ?`,
		mirrorID,
	)
	return scanStarboardMessage(row, fmt.Sprintf("mirror %d", mirrorID))
}

// CreateStarboardMessage records the link between a source message and its
// freshly sent mirror.
func (s *Store) CreateStarboardMessage(mirrorID, origID, starboardID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO starboard_messages (id, orig_id, starboard_id) VALUES (?, ?, ?)`,
		mirrorID, origID, starboardID,
	)
	if err != nil {
		return fmt.Errorf("failed to create starboard message %d: %w", mirrorID, err)
	}
	return nil
}

// DeleteStarboardMessage drops a mirror link by mirror message ID.
func (s *Store) DeleteStarboardMessage(mirrorID int64) error {
	_, err := s.db.Exec(`DELETE FROM starboard_messages WHERE id = ?`, mirrorID)
	if err != nil {
		return fmt.Errorf("failed to delete starboard message %d: %w", mirrorID, err)
	}
	return nil
}

// SetPoints stores the computed score on a mirror link.
func (s *Store) SetPoints(mirrorID int64, points int) error {
	_, err := s.db.Exec(`UPDATE starboard_messages SET points = ? WHERE id = ?`, points, mirrorID)
	if err != nil {
		return fmt.Errorf("failed to set points for starboard message %d: %w", mirrorID, err)
	}
	return nil
}

// GetLinkedOrigIDs returns the IDs of all source messages in a guild that
// currently have at least one mirror, for the re-sync sweep.
func (s *Store) GetLinkedOrigIDs(guildID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT sm.orig_id FROM starboard_messages sm
         JOIN starboards sb ON sb.id = sm.starboard_id
         WHERE sb.guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked messages for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan message ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanStarboardMessage(row *sql.Row, desc string) (*models.StarboardMessage, error) {
	var sm models.StarboardMessage
	err := row.Scan(&sm.MirrorID, &sm.OrigID, &sm.StarboardID, &sm.Points)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starboard message %s: %w", desc, err)
	}
	return &sm, nil
}
