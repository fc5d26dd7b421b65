// Package track provides the Track domain entity.
package track

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by a Catalog when no track exists for the given ID.
var ErrNotFound = errors.New("track not found")

// Track represents an entry in the track library.
// Tracks are owned by the catalog; the playlist core only reads them.
type Track struct {
	ID              string `json:"id"`                  // Catalog track ID
	Title           string `json:"title"`               // Track title
	Artist          string `json:"artist"`              // Artist name
	Album           string `json:"album,omitempty"`     // Album name (optional)
	DurationSeconds int    `json:"duration_seconds"`    // Duration in seconds
	Genre           string `json:"genre,omitempty"`     // Genre (optional)
	CoverURL        string `json:"cover_url,omitempty"` // Cover art URL (optional)
}

// Catalog provides read-only access to the track library.
type Catalog interface {
	// GetTrack returns the track with the given ID, or ErrNotFound.
	GetTrack(ctx context.Context, id string) (Track, error)
	// ListTracks returns all tracks ordered by artist then title.
	ListTracks(ctx context.Context) ([]Track, error)
}
