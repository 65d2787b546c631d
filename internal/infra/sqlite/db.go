// Package sqlite is a single-file durable store for the leaderboard and the
// practice answer log, for deployments without Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard_entries (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    mode         TEXT NOT NULL,
    difficulty   TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL,
    metric       INTEGER NOT NULL,
    total        INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_rank
    ON leaderboard_entries (mode, metric DESC, created_at ASC);

CREATE TABLE IF NOT EXISTS answer_events (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    display_name       TEXT NOT NULL,
    player_name        TEXT NOT NULL,
    player_team        TEXT,
    nba_conference     TEXT,
    college_conference TEXT,
    correct            INTEGER NOT NULL,
    created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answer_events_display_name
    ON answer_events (display_name, created_at);
`

// builder renders ? placeholders for database/sql.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Open opens (creating if needed) the database file at path and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection keeps inserts serialized.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
