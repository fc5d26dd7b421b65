package broadcast

import (
	"time"

	"github.com/soramae/waxline/internal/domain/playlist"
)

// Domain event types, one per successful mutation, plus the heartbeat.
const (
	TypeTrackAdded   = "track.added"
	TypeTrackRemoved = "track.removed"
	TypeTrackMoved   = "track.moved"
	TypeTrackVoted   = "track.voted"
	TypeTrackPlaying = "track.playing"
	TypePing         = "ping"
)

// Event is the envelope pushed to every live subscriber.
// Item is set for added/moved/voted, ID for removed/playing.
type Event struct {
	Type string         `json:"type"`
	Ts   time.Time      `json:"ts"`
	Item *playlist.Item `json:"item,omitempty"`
	ID   string         `json:"id,omitempty"`
}

// TrackAdded builds a track.added event.
func TrackAdded(item playlist.Item) Event {
	return Event{Type: TypeTrackAdded, Item: &item}
}

// TrackRemoved builds a track.removed event.
func TrackRemoved(id string) Event {
	return Event{Type: TypeTrackRemoved, ID: id}
}

// TrackMoved builds a track.moved event.
func TrackMoved(item playlist.Item) Event {
	return Event{Type: TypeTrackMoved, Item: &item}
}

// TrackVoted builds a track.voted event.
func TrackVoted(item playlist.Item) Event {
	return Event{Type: TypeTrackVoted, Item: &item}
}

// TrackPlaying builds a track.playing event.
func TrackPlaying(id string) Event {
	return Event{Type: TypeTrackPlaying, ID: id}
}

// Heartbeat builds the periodic ping envelope.
func Heartbeat() Event {
	return Event{Type: TypePing}
}
