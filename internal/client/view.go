package client

import (
	"sort"
	"sync"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/domain/playlist"
)

// View is a local mirror of the playlist kept current by applying the event
// stream. Replace swaps in a server snapshot; Apply folds a single event in.
// Events carry full item state, so applying them is idempotent and order
// glitches self-heal on the next snapshot.
type View struct {
	mu    sync.RWMutex
	items map[string]playlist.Item
}

// NewView creates an empty view.
func NewView() *View {
	return &View{items: make(map[string]playlist.Item)}
}

// Replace resets the view to a server snapshot.
func (v *View) Replace(items []playlist.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = make(map[string]playlist.Item, len(items))
	for _, item := range items {
		v.items[item.ID] = item
	}
}

// Apply folds one event into the view.
func (v *View) Apply(event broadcast.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch event.Type {
	case broadcast.TypeTrackAdded, broadcast.TypeTrackMoved, broadcast.TypeTrackVoted:
		if event.Item != nil {
			v.items[event.Item.ID] = *event.Item
		}
	case broadcast.TypeTrackRemoved:
		delete(v.items, event.ID)
	case broadcast.TypeTrackPlaying:
		for id, item := range v.items {
			if item.IsPlaying && id != event.ID {
				item.IsPlaying = false
				v.items[id] = item
			}
		}
		if item, ok := v.items[event.ID]; ok {
			item.IsPlaying = true
			// The event carries no item payload; the envelope timestamp is
			// the closest approximation until the next snapshot.
			if !event.Ts.IsZero() {
				ts := event.Ts
				item.PlayedAt = &ts
			}
			v.items[event.ID] = item
		}
	}
}

// Items returns the playlist in position order.
func (v *View) Items() []playlist.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()

	items := make([]playlist.Item, 0, len(v.items))
	for _, item := range v.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items
}

// Len returns the number of items in the view.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}
