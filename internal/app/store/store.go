// Package store provides the authoritative in-memory playlist collection.
//
// One Store instance is the sole owner of playlist state. All mutating
// operations are serialized behind a write lock so the track-uniqueness and
// single-playing invariants can never be violated by interleaving; reads take
// a shared lock and observe a consistent snapshot.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/soramae/waxline/internal/domain/playlist"
)

var (
	ErrItemNotFound   = errors.New("playlist item not found")
	ErrDuplicateTrack = errors.New("track is already in the playlist")
	ErrPositionTaken  = errors.New("position is already taken")
)

// Persister records playlist items durably. A mutation is only committed to
// memory after the persister has accepted it.
type Persister interface {
	UpsertItem(ctx context.Context, item playlist.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// Store holds the playlist keyed by item ID with a track-ID index.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*playlist.Item
	byTrack map[string]string // track ID -> item ID
	persist Persister
}

// New creates a store seeded with previously persisted items.
// A nil persister keeps the store memory-only (used by tests).
func New(persist Persister, seed []playlist.Item) *Store {
	s := &Store{
		items:   make(map[string]*playlist.Item, len(seed)),
		byTrack: make(map[string]string, len(seed)),
		persist: persist,
	}
	for i := range seed {
		item := seed[i]
		s.items[item.ID] = &item
		s.byTrack[item.TrackID] = item.ID
	}
	return s
}

// List returns all items sorted by position ascending.
func (s *Store) List() []playlist.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]playlist.Item, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result
}

// Get returns a copy of the item with the given ID.
func (s *Store) Get(id string) (playlist.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return playlist.Item{}, ErrItemNotFound
	}
	return *item, nil
}

// ExistsForTrack reports whether the track is already queued.
func (s *Store) ExistsForTrack(trackID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byTrack[trackID]
	return ok
}

// MaxPosition returns the highest position in use, or false when empty.
func (s *Store) MaxPosition() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max float64
	found := false
	for _, item := range s.items {
		if !found || item.Position > max {
			max = item.Position
			found = true
		}
	}
	return max, found
}

// Count returns the number of queued items.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Insert adds a new item. Fails with ErrDuplicateTrack when the track is
// already queued and ErrPositionTaken when the position is in use.
func (s *Store) Insert(ctx context.Context, item playlist.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byTrack[item.TrackID]; ok {
		return ErrDuplicateTrack
	}
	if s.positionTakenLocked(item.Position, "") {
		return errors.Wrapf(ErrPositionTaken, "position %v", item.Position)
	}
	if err := s.persistUpsertLocked(ctx, item); err != nil {
		return err
	}

	s.items[item.ID] = &item
	s.byTrack[item.TrackID] = item.ID
	return nil
}

// UpdatePosition moves the item to a new position.
func (s *Store) UpdatePosition(ctx context.Context, id string, position float64) (playlist.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return playlist.Item{}, ErrItemNotFound
	}
	if s.positionTakenLocked(position, id) {
		return playlist.Item{}, errors.Wrapf(ErrPositionTaken, "position %v", position)
	}

	updated := *item
	updated.Position = position
	if err := s.persistUpsertLocked(ctx, updated); err != nil {
		return playlist.Item{}, err
	}

	*item = updated
	return updated, nil
}

// UpdateVotes applies the delta to the item's vote count. The count is
// unbounded in both directions.
func (s *Store) UpdateVotes(ctx context.Context, id string, delta int) (playlist.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return playlist.Item{}, ErrItemNotFound
	}

	updated := *item
	updated.Votes += delta
	if err := s.persistUpsertLocked(ctx, updated); err != nil {
		return playlist.Item{}, err
	}

	*item = updated
	return updated, nil
}

// SetPlaying marks the item as now playing. Whatever item currently holds the
// flag is cleared within the same critical section, so no observer can ever
// see two playing items. PlayedAt is stamped on the target and survives the
// flag being cleared later.
func (s *Store) SetPlaying(ctx context.Context, id string) (playlist.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return playlist.Item{}, ErrItemNotFound
	}

	var previous *playlist.Item
	for _, other := range s.items {
		if other.IsPlaying && other.ID != id {
			previous = other
			break
		}
	}

	now := time.Now().UTC()
	updated := *item
	updated.IsPlaying = true
	updated.PlayedAt = &now

	if err := s.persistUpsertLocked(ctx, updated); err != nil {
		return playlist.Item{}, err
	}
	if previous != nil {
		cleared := *previous
		cleared.IsPlaying = false
		if err := s.persistUpsertLocked(ctx, cleared); err != nil {
			// Roll the target's row back so durable state stays consistent.
			_ = s.persistUpsertLocked(ctx, *item)
			return playlist.Item{}, err
		}
		previous.IsPlaying = false
	}

	*item = updated
	return updated, nil
}

// Remove deletes the item with the given ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return ErrItemNotFound
	}
	if s.persist != nil {
		if err := s.persist.DeleteItem(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete playlist item")
		}
	}

	delete(s.byTrack, item.TrackID)
	delete(s.items, id)
	return nil
}

func (s *Store) persistUpsertLocked(ctx context.Context, item playlist.Item) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.UpsertItem(ctx, item); err != nil {
		return errors.Wrap(err, "failed to persist playlist item")
	}
	return nil
}

func (s *Store) positionTakenLocked(position float64, excludeID string) bool {
	for _, item := range s.items {
		if item.ID != excludeID && item.Position == position {
			return true
		}
	}
	return false
}
