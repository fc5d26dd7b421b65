// Package persist provides durable storage of playlist items in SQLite.
// Rows are written before the in-memory store commits a mutation, so a
// restart reloads exactly the committed playlist.
package persist

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/soramae/waxline/internal/domain/playlist"
)

// ItemStore persists playlist items keyed by ID.
type ItemStore struct {
	db *sql.DB
}

// New creates an item store on top of an open database.
func New(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// UpsertItem inserts the item or replaces the existing row with the same ID.
func (p *ItemStore) UpsertItem(ctx context.Context, item playlist.Item) error {
	var playedAt any
	if item.PlayedAt != nil {
		playedAt = *item.PlayedAt
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO playlist_items (id, track_id, position, votes, added_by, added_at, is_playing, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			track_id   = excluded.track_id,
			position   = excluded.position,
			votes      = excluded.votes,
			added_by   = excluded.added_by,
			added_at   = excluded.added_at,
			is_playing = excluded.is_playing,
			played_at  = excluded.played_at`,
		item.ID, item.TrackID, item.Position, item.Votes,
		item.AddedBy, item.AddedAt, item.IsPlaying, playedAt)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert playlist item %s", item.ID)
	}
	return nil
}

// DeleteItem removes the row with the given ID. Deleting a missing row is
// not an error; the in-memory store already guards existence.
func (p *ItemStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM playlist_items WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "failed to delete playlist item %s", id)
	}
	return nil
}

// LoadItems returns all persisted items with their tracks, ordered by
// position. Used to seed the in-memory store at startup.
func (p *ItemStore) LoadItems(ctx context.Context) ([]playlist.Item, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT i.id, i.track_id, i.position, i.votes, i.added_by, i.added_at, i.is_playing, i.played_at,
		       t.id, t.title, t.artist, t.album, t.duration_seconds, t.genre, t.cover_url
		FROM playlist_items i
		JOIN tracks t ON t.id = i.track_id
		ORDER BY i.position ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load playlist items")
	}
	defer rows.Close()

	var items []playlist.Item
	for rows.Next() {
		var item playlist.Item
		var playedAt sql.NullTime
		err := rows.Scan(
			&item.ID, &item.TrackID, &item.Position, &item.Votes,
			&item.AddedBy, &item.AddedAt, &item.IsPlaying, &playedAt,
			&item.Track.ID, &item.Track.Title, &item.Track.Artist, &item.Track.Album,
			&item.Track.DurationSeconds, &item.Track.Genre, &item.Track.CoverURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan playlist item")
		}
		if playedAt.Valid {
			t := playedAt.Time
			item.PlayedAt = &t
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
