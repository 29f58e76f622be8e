package database

import (
	"database/sql"
	"fmt"

	"starboard-bot/models"
)

const starboardColumns = `id, guild_id, required, required_remove, self_star,
    allow_bots, allow_nsfw, link_edits, link_deletes, star_emojis,
    display_emoji, color, regex, exclude_regex, autoreact`

// CreateStarboard inserts or updates a starboard configuration. An update
// rewrites the row in place, so the starboard's mirror links survive
// reconfiguration. INSERT OR REPLACE would delete and re-insert the row,
// cascading the delete into starboard_messages.
func (s *Store) CreateStarboard(sb *models.Starboard) error {
	query := fmt.Sprintf(`INSERT INTO starboards (%s)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            guild_id = excluded.guild_id,
            required = excluded.required,
            required_remove = excluded.required_remove,
            self_star = excluded.self_star,
            allow_bots = excluded.allow_bots,
            allow_nsfw = excluded.allow_nsfw,
            link_edits = excluded.link_edits,
            link_deletes = excluded.link_deletes,
            star_emojis = excluded.star_emojis,
            display_emoji = excluded.display_emoji,
            color = excluded.color,
            regex = excluded.regex,
            exclude_regex = excluded.exclude_regex,
            autoreact = excluded.autoreact`, starboardColumns)

	_, err := s.db.Exec(query,
		sb.ID,
		sb.GuildID,
		sb.Required,
		sb.RequiredRemove,
		sb.SelfStar,
		sb.AllowBots,
		sb.AllowNSFW,
		sb.LinkEdits,
		sb.LinkDeletes,
		encodeStrings(sb.StarEmojis),
		sb.DisplayEmoji,
		sb.Color,
		sb.Regex,
		sb.ExcludeRegex,
		sb.Autoreact,
	)
	if err != nil {
		return fmt.Errorf("failed to create starboard %d: %w", sb.ID, err)
	}
	return nil
}

// GetStarboard returns one starboard by channel ID, or nil if not configured.
func (s *Store) GetStarboard(starboardID int64) (*models.Starboard, error) {
	query := fmt.Sprintf(`SELECT %s FROM starboards WHERE id = ?`, starboardColumns)
	sb, err := scanStarboard(s.db.QueryRow(query, starboardID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get starboard %d: %w", starboardID, err)
	}
	return sb, nil
}

// GetStarboards returns all starboards configured on a guild.
func (s *Store) GetStarboards(guildID int64) ([]*models.Starboard, error) {
	query := fmt.Sprintf(`SELECT %s FROM starboards WHERE guild_id = ? ORDER BY id`, starboardColumns)
	rows, err := s.db.Query(query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query starboards for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var starboards []*models.Starboard
	for rows.Next() {
		sb, err := scanStarboard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan starboard row: %w", err)
		}
		starboards = append(starboards, sb)
	}
	return starboards, rows.Err()
}

// GetStarboardGuildIDs returns the IDs of all guilds with at least one
// starboard configured, for the periodic re-sync sweep.
func (s *Store) GetStarboardGuildIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT DISTINCT guild_id FROM starboards`)
	if err != nil {
		return nil, fmt.Errorf("failed to query starboard guilds: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan guild ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteStarboard removes a starboard and, via cascade, its mirror links.
func (s *Store) DeleteStarboard(starboardID int64) error {
	_, err := s.db.Exec(`DELETE FROM starboards WHERE id = ?`, starboardID)
	if err != nil {
		return fmt.Errorf("failed to delete starboard %d: %w", starboardID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStarboard(row rowScanner) (*models.Starboard, error) {
	var sb models.Starboard
	var emojis string
	err := row.Scan(
		&sb.ID,
		&sb.GuildID,
		&sb.Required,
		&sb.RequiredRemove,
		&sb.SelfStar,
		&sb.AllowBots,
		&sb.AllowNSFW,
		&sb.LinkEdits,
		&sb.LinkDeletes,
		&emojis,
		&sb.DisplayEmoji,
		&sb.Color,
		&sb.Regex,
		&sb.ExcludeRegex,
		&sb.Autoreact,
	)
	if err != nil {
		return nil, err
	}
	sb.StarEmojis = decodeStrings(emojis)
	return &sb, nil
}
