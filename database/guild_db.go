package database

import (
	"database/sql"
	"fmt"

	"starboard-bot/models"
)

// CreateGuild inserts a guild row if it does not exist yet.
func (s *Store) CreateGuild(guildID int64) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO guilds (id) VALUES (?)`, guildID)
	if err != nil {
		return fmt.Errorf("failed to create guild %d: %w", guildID, err)
	}
	return nil
}

// GetGuild returns the guild row, or nil if the guild is unknown.
func (s *Store) GetGuild(guildID int64) (*models.Guild, error) {
	row := s.db.QueryRow(`SELECT id, log_channel FROM guilds WHERE id = ?`, guildID)

	var g models.Guild
	if err := row.Scan(&g.ID, &g.LogChannel); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get guild %d: %w", guildID, err)
	}
	return &g, nil
}

// SetLogChannel sets or clears (with 0) the guild's operator log channel.
func (s *Store) SetLogChannel(guildID, channelID int64) error {
	_, err := s.db.Exec(`UPDATE guilds SET log_channel = ? WHERE id = ?`, channelID, guildID)
	if err != nil {
		return fmt.Errorf("failed to set log channel for guild %d: %w", guildID, err)
	}
	return nil
}

// DeleteGuild removes a guild and, via cascades, its starboards, members and
// messages.
func (s *Store) DeleteGuild(guildID int64) error {
	_, err := s.db.Exec(`DELETE FROM guilds WHERE id = ?`, guildID)
	if err != nil {
		return fmt.Errorf("failed to delete guild %d: %w", guildID, err)
	}
	return nil
}

// CreateUser inserts a user row if it does not exist yet.
func (s *Store) CreateUser(userID int64, isBot bool) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO users (id, is_bot) VALUES (?, ?)`, userID, isBot)
	if err != nil {
		return fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	return nil
}

// GetUser returns the user row, or nil if the user is unknown.
func (s *Store) GetUser(userID int64) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, is_bot FROM users WHERE id = ?`, userID)

	var u models.User
	if err := row.Scan(&u.ID, &u.IsBot); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &u, nil
}

// DeleteUser removes a user. Author and reactor references are nulled rather
// than cascaded.
func (s *Store) DeleteUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}

// CreateMember inserts a member row if it does not exist yet.
func (s *Store) CreateMember(userID, guildID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO members (user_id, guild_id) VALUES (?, ?)`,
		userID, guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to create member %d/%d: %w", userID, guildID, err)
	}
	return nil
}

// GetMember returns the member row, or nil if it does not exist.
func (s *Store) GetMember(userID, guildID int64) (*models.Member, error) {
	row := s.db.QueryRow(
		`SELECT user_id, guild_id, stars_given, stars_received, xp, level
         FROM members WHERE user_id = ? AND guild_id = ?`,
		userID, guildID,
	)

	var m models.Member
	err := row.Scan(&m.UserID, &m.GuildID, &m.StarsGiven, &m.StarsReceived, &m.XP, &m.Level)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member %d/%d: %w", userID, guildID, err)
	}
	return &m, nil
}

// AddMemberStars adjusts a member's given/received counters. Received stars
// also feed the member's XP, which never drops below zero.
func (s *Store) AddMemberStars(userID, guildID int64, givenDelta, receivedDelta int) error {
	if err := s.CreateMember(userID, guildID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE members SET
            stars_given = MAX(0, stars_given + ?),
            stars_received = MAX(0, stars_received + ?),
            xp = MAX(0, xp + ?)
         WHERE user_id = ? AND guild_id = ?`,
		givenDelta, receivedDelta, receivedDelta, userID, guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stars for member %d/%d: %w", userID, guildID, err)
	}
	return nil
}
