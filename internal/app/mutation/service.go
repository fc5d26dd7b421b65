// Package mutation provides the sole write path for playlist state. Every
// command validates its input, applies exactly one atomic store operation and
// emits exactly one domain event on success. A failed command emits nothing,
// so other clients never observe a half-applied mutation.
package mutation

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/store"
	"github.com/soramae/waxline/internal/domain/playlist"
	"github.com/soramae/waxline/internal/domain/track"
)

// ErrValidation marks malformed or missing command input.
var ErrValidation = errors.New("invalid command")

// defaultAddedBy labels items queued without a display name.
const defaultAddedBy = "Anonymous"

// Publisher receives one event per successful command.
type Publisher interface {
	Publish(broadcast.Event)
}

// Service orchestrates client commands against the store and catalog.
type Service struct {
	store     *store.Store
	catalog   track.Catalog
	publisher Publisher
	validate  *validator.Validate
}

// NewService creates a mutation service.
func NewService(st *store.Store, catalog track.Catalog, publisher Publisher) *Service {
	return &Service{
		store:     st,
		catalog:   catalog,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// AddTrackCommand queues a catalog track.
type AddTrackCommand struct {
	TrackID   string `validate:"required"`
	AddedBy   string
	Placement playlist.Placement
}

// AddTrack validates the command, resolves the placement and creates the
// item. Emits track.added.
func (s *Service) AddTrack(ctx context.Context, cmd AddTrackCommand) (playlist.Item, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return playlist.Item{}, errors.Wrapf(ErrValidation, "track_id is required")
	}

	tr, err := s.catalog.GetTrack(ctx, cmd.TrackID)
	if err != nil {
		return playlist.Item{}, err
	}
	if s.store.ExistsForTrack(cmd.TrackID) {
		return playlist.Item{}, store.ErrDuplicateTrack
	}

	position, err := s.resolvePlacement(cmd.Placement)
	if err != nil {
		return playlist.Item{}, err
	}

	addedBy := cmd.AddedBy
	if addedBy == "" {
		addedBy = defaultAddedBy
	}

	item := playlist.Item{
		ID:       uuid.New().String(),
		TrackID:  tr.ID,
		Track:    tr,
		Position: position,
		AddedBy:  addedBy,
		AddedAt:  time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return playlist.Item{}, err
	}

	zlog.Debug().Msgf("mutation: added track %s as item %s at position %v", tr.ID, item.ID, position)
	s.publisher.Publish(broadcast.TrackAdded(item))
	return item, nil
}

// RemoveTrack deletes an item. Emits track.removed.
func (s *Service) RemoveTrack(ctx context.Context, id string) error {
	if id == "" {
		return errors.Wrapf(ErrValidation, "item id is required")
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}

	s.publisher.Publish(broadcast.TrackRemoved(id))
	return nil
}

// Reorder moves an item to the position resolved from the placement, using
// the same resolution rules as AddTrack. Emits track.moved.
func (s *Service) Reorder(ctx context.Context, id string, placement playlist.Placement) (playlist.Item, error) {
	if id == "" {
		return playlist.Item{}, errors.Wrapf(ErrValidation, "item id is required")
	}

	position, err := s.resolvePlacement(placement)
	if err != nil {
		return playlist.Item{}, err
	}

	item, err := s.store.UpdatePosition(ctx, id, position)
	if err != nil {
		return playlist.Item{}, err
	}

	s.publisher.Publish(broadcast.TrackMoved(item))
	return item, nil
}

// Vote applies an up or down vote. Emits track.voted.
func (s *Service) Vote(ctx context.Context, id string, direction playlist.Direction) (playlist.Item, error) {
	if id == "" {
		return playlist.Item{}, errors.Wrapf(ErrValidation, "item id is required")
	}
	if !direction.Valid() {
		return playlist.Item{}, errors.Wrapf(ErrValidation, "direction must be %q or %q", playlist.VoteUp, playlist.VoteDown)
	}

	item, err := s.store.UpdateVotes(ctx, id, direction.Delta())
	if err != nil {
		return playlist.Item{}, err
	}

	s.publisher.Publish(broadcast.TrackVoted(item))
	return item, nil
}

// SetPlaying marks an item as now playing, clearing the previous holder
// atomically. Emits track.playing.
func (s *Service) SetPlaying(ctx context.Context, id string) (playlist.Item, error) {
	if id == "" {
		return playlist.Item{}, errors.Wrapf(ErrValidation, "item id is required")
	}

	item, err := s.store.SetPlaying(ctx, id)
	if err != nil {
		return playlist.Item{}, err
	}

	s.publisher.Publish(broadcast.TrackPlaying(item.ID))
	return item, nil
}

// List returns the playlist sorted by position ascending.
func (s *Service) List() []playlist.Item {
	return s.store.List()
}

// resolvePlacement turns a placement into a concrete position.
//
// Neighbor placement follows the wire contract: Before(id) allocates against
// the referenced item's position as the upper bound only, After(id) as the
// lower bound only. An explicit position is used as given; the store rejects
// it if another item already holds it.
func (s *Service) resolvePlacement(p playlist.Placement) (float64, error) {
	switch p.Kind {
	case playlist.PlaceAt:
		return p.Position, nil

	case playlist.PlaceNeighbors:
		var prev, next *float64
		if p.AfterID != "" {
			item, err := s.store.Get(p.AfterID)
			if err != nil {
				return 0, err
			}
			prev = &item.Position
		}
		if p.BeforeID != "" {
			item, err := s.store.Get(p.BeforeID)
			if err != nil {
				return 0, err
			}
			next = &item.Position
		}
		if prev == nil && next == nil {
			return 0, errors.Wrapf(ErrValidation, "before_id or after_id is required")
		}
		return playlist.Allocate(prev, next), nil

	default: // PlaceEnd
		if max, ok := s.store.MaxPosition(); ok {
			return playlist.Allocate(&max, nil), nil
		}
		return playlist.Allocate(nil, nil), nil
	}
}
