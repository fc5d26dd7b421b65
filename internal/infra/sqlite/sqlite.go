// Package sqlite provides the SQLite database connection and schema.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	artist           TEXT NOT NULL,
	album            TEXT NOT NULL DEFAULT '',
	duration_seconds INTEGER NOT NULL,
	genre            TEXT NOT NULL DEFAULT '',
	cover_url        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS playlist_items (
	id         TEXT PRIMARY KEY,
	track_id   TEXT NOT NULL UNIQUE REFERENCES tracks(id),
	position   REAL NOT NULL,
	votes      INTEGER NOT NULL DEFAULT 0,
	added_by   TEXT NOT NULL,
	added_at   TIMESTAMP NOT NULL,
	is_playing INTEGER NOT NULL DEFAULT 0,
	played_at  TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_playlist_items_position ON playlist_items(position);
`

// Open opens a SQLite database at the given path and verifies the
// connection. ":memory:" gives an in-memory database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
