package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// Store wraps the bot's SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the database at dbPath and ensures
// the schema exists. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		// Ensure the directory for the database file exists.
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps an
	// in-memory database from splitting across the pool.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables ensures all tables exist. Cascades: deleting a guild removes
// its starboards, members and messages; deleting a starboard or message
// removes its links; deleting a user nulls author and reactor references.
func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS guilds (
            id INTEGER PRIMARY KEY,
            log_channel INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY,
            is_bot INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS members (
            user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
            guild_id INTEGER NOT NULL REFERENCES guilds (id) ON DELETE CASCADE,
            stars_given INTEGER NOT NULL DEFAULT 0,
            stars_received INTEGER NOT NULL DEFAULT 0,
            xp INTEGER NOT NULL DEFAULT 0,
            level INTEGER NOT NULL DEFAULT 0,
            PRIMARY KEY (user_id, guild_id)
        );`,
		`CREATE TABLE IF NOT EXISTS starboards (
            id INTEGER PRIMARY KEY,
            guild_id INTEGER NOT NULL REFERENCES guilds (id) ON DELETE CASCADE,
            required INTEGER NOT NULL DEFAULT 3,
            required_remove INTEGER NOT NULL DEFAULT 0,
            self_star INTEGER NOT NULL DEFAULT 0,
            allow_bots INTEGER NOT NULL DEFAULT 1,
            allow_nsfw INTEGER NOT NULL DEFAULT 0,
            link_edits INTEGER NOT NULL DEFAULT 1,
            link_deletes INTEGER NOT NULL DEFAULT 0,
            star_emojis TEXT NOT NULL DEFAULT '["⭐"]',
            display_emoji TEXT NOT NULL DEFAULT '⭐',
            color INTEGER NOT NULL DEFAULT 16755763,
            regex TEXT NOT NULL DEFAULT '',
            exclude_regex TEXT NOT NULL DEFAULT '',
            autoreact INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id INTEGER PRIMARY KEY,
            guild_id INTEGER NOT NULL REFERENCES guilds (id) ON DELETE CASCADE,
            channel_id INTEGER NOT NULL,
            author_id INTEGER REFERENCES users (id) ON DELETE SET NULL,
            points INTEGER NOT NULL DEFAULT 0,
            is_nsfw INTEGER NOT NULL DEFAULT 0,
            forced TEXT NOT NULL DEFAULT '[]',
            trashed INTEGER NOT NULL DEFAULT 0,
            frozen INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS starboard_messages (
            id INTEGER PRIMARY KEY,
            orig_id INTEGER NOT NULL REFERENCES messages (id) ON DELETE CASCADE,
            starboard_id INTEGER NOT NULL REFERENCES starboards (id) ON DELETE CASCADE,
            points INTEGER NOT NULL DEFAULT 0,
            UNIQUE (orig_id, starboard_id)
        );`,
		`CREATE TABLE IF NOT EXISTS reactions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            emoji TEXT NOT NULL,
            message_id INTEGER NOT NULL REFERENCES messages (id) ON DELETE CASCADE,
            UNIQUE (message_id, emoji)
        );`,
		`CREATE TABLE IF NOT EXISTS reaction_users (
            reaction_id INTEGER NOT NULL REFERENCES reactions (id) ON DELETE CASCADE,
            user_id INTEGER REFERENCES users (id) ON DELETE SET NULL,
            UNIQUE (reaction_id, user_id)
        );`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// encodeInt64s serializes a list of IDs as a JSON array string for storage.
func encodeInt64s(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeInt64s parses a JSON array string produced by encodeInt64s.
func decodeInt64s(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

// encodeStrings and decodeStrings do the same for emoji lists.
func encodeStrings(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeStrings(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
