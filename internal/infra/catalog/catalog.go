// Package catalog provides the SQLite-backed read-only track library.
package catalog

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/domain/track"
)

// Catalog reads tracks from the library table.
type Catalog struct {
	db *sql.DB
}

// New creates a catalog on top of an open database.
func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

var _ track.Catalog = (*Catalog)(nil)

// GetTrack returns the track with the given ID, or track.ErrNotFound.
func (c *Catalog) GetTrack(ctx context.Context, id string) (track.Track, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, title, artist, album, duration_seconds, genre, cover_url
		FROM tracks
		WHERE id = ?`, id)

	var t track.Track
	err := row.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &t.DurationSeconds, &t.Genre, &t.CoverURL)
	if errors.Is(err, sql.ErrNoRows) {
		return track.Track{}, track.ErrNotFound
	}
	if err != nil {
		return track.Track{}, errors.Wrap(err, "failed to fetch track")
	}
	return t, nil
}

// ListTracks returns the whole library ordered by artist then title.
func (c *Catalog) ListTracks(ctx context.Context) ([]track.Track, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, artist, album, duration_seconds, genre, cover_url
		FROM tracks
		ORDER BY artist ASC, title ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tracks")
	}
	defer rows.Close()

	var tracks []track.Track
	for rows.Next() {
		var t track.Track
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &t.DurationSeconds, &t.Genre, &t.CoverURL); err != nil {
			return nil, errors.Wrap(err, "failed to scan track")
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// EnsureSeed populates the library with the bundled seed tracks when the
// table is empty. Existing data is left untouched.
func (c *Catalog) EnsureSeed(ctx context.Context) error {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return errors.Wrap(err, "failed to count tracks")
	}
	if count > 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin seed transaction")
	}
	defer tx.Rollback()

	for _, t := range seedTracks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (id, title, artist, album, duration_seconds, genre, cover_url)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), t.Title, t.Artist, t.Album, t.DurationSeconds, t.Genre, t.CoverURL)
		if err != nil {
			return errors.Wrapf(err, "failed to seed track %q", t.Title)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit seed")
	}

	zlog.Info().Msgf("catalog: seeded %d tracks", len(seedTracks))
	return nil
}
