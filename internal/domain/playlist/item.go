// Package playlist provides the PlaylistItem domain entity and position allocation.
package playlist

import (
	"time"

	"github.com/soramae/waxline/internal/domain/track"
)

// Item represents a queued reference to a track, plus ordering, voting
// and playback-flag state.
type Item struct {
	ID        string      `json:"id"`         // Unique item ID
	TrackID   string      `json:"track_id"`   // Reference to the catalog track
	Track     track.Track `json:"track"`      // Nested track for the wire format
	Position  float64     `json:"position"`   // Sort key, strictly ascending defines order
	Votes     int         `json:"votes"`      // Signed, unbounded
	AddedBy   string      `json:"added_by"`   // Display label of whoever queued it
	AddedAt   time.Time   `json:"added_at"`   // Set at creation, immutable
	IsPlaying bool        `json:"is_playing"` // At most one item holds this at a time
	PlayedAt  *time.Time  `json:"played_at"`  // Set when IsPlaying first turns true, never cleared
}

// PlacementKind discriminates how a target position is resolved.
type PlacementKind int

const (
	PlaceEnd       PlacementKind = iota // After the current last item
	PlaceAt                             // At an explicitly given position
	PlaceNeighbors                      // Relative to existing items (before/after)
)

// Placement describes where an item should be inserted or moved.
// Use the constructors; the zero value places at the end.
type Placement struct {
	Kind     PlacementKind
	Position float64 // Used by PlaceAt
	BeforeID string  // Item the new position must precede (optional)
	AfterID  string  // Item the new position must follow (optional)
}

// AtEnd places after the current last item.
func AtEnd() Placement { return Placement{Kind: PlaceEnd} }

// At places at the given explicit position.
func At(pos float64) Placement { return Placement{Kind: PlaceAt, Position: pos} }

// Before places immediately before the item with the given ID.
func Before(id string) Placement { return Placement{Kind: PlaceNeighbors, BeforeID: id} }

// After places immediately after the item with the given ID.
func After(id string) Placement { return Placement{Kind: PlaceNeighbors, AfterID: id} }

// Between places between two existing items.
func Between(afterID, beforeID string) Placement {
	return Placement{Kind: PlaceNeighbors, AfterID: afterID, BeforeID: beforeID}
}

// Direction is a vote direction.
type Direction string

const (
	VoteUp   Direction = "up"
	VoteDown Direction = "down"
)

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Delta returns the vote increment for the direction.
func (d Direction) Delta() int {
	if d == VoteDown {
		return -1
	}
	return 1
}
