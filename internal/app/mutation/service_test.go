package mutation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/store"
	"github.com/soramae/waxline/internal/domain/playlist"
	"github.com/soramae/waxline/internal/domain/track"
)

// fakeCatalog serves a fixed track set.
type fakeCatalog struct {
	tracks map[string]track.Track
}

func newFakeCatalog(ids ...string) *fakeCatalog {
	c := &fakeCatalog{tracks: make(map[string]track.Track)}
	for _, id := range ids {
		c.tracks[id] = track.Track{ID: id, Title: "Title " + id, Artist: "Artist"}
	}
	return c
}

func (c *fakeCatalog) GetTrack(_ context.Context, id string) (track.Track, error) {
	tr, ok := c.tracks[id]
	if !ok {
		return track.Track{}, track.ErrNotFound
	}
	return tr, nil
}

func (c *fakeCatalog) ListTracks(_ context.Context) ([]track.Track, error) {
	result := make([]track.Track, 0, len(c.tracks))
	for _, tr := range c.tracks {
		result = append(result, tr)
	}
	return result, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []broadcast.Event
}

func (p *recordingPublisher) Publish(event broadcast.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) all() []broadcast.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]broadcast.Event(nil), p.events...)
}

func newService(trackIDs ...string) (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewService(store.New(nil, nil), newFakeCatalog(trackIDs...), pub)
	return svc, pub
}

func TestService_AddTrack(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService("t1", "t2")

	first, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1", AddedBy: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.Position)
	assert.Equal(t, "alice", first.AddedBy)
	assert.Equal(t, "Title t1", first.Track.Title)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.AddedAt.IsZero())

	second, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t2"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, second.Position)
	assert.Equal(t, "Anonymous", second.AddedBy)

	events := pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, broadcast.TypeTrackAdded, events[0].Type)
	assert.Equal(t, first.ID, events[0].Item.ID)
}

func TestService_AddTrack_Errors(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService("t1")

	_, err := svc.AddTrack(ctx, AddTrackCommand{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddTrack(ctx, AddTrackCommand{TrackID: "unknown"})
	assert.ErrorIs(t, err, track.ErrNotFound)

	_, err = svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	require.NoError(t, err)
	_, err = svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	assert.ErrorIs(t, err, store.ErrDuplicateTrack)

	// Failed commands emit nothing.
	assert.Len(t, pub.all(), 1)
}

func TestService_AddTrack_Placement(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService("t1", "t2", "t3", "t4")

	a, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	require.NoError(t, err)
	b, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t2"})
	require.NoError(t, err)

	t.Run("before the first item", func(t *testing.T) {
		got, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t3", Placement: playlist.Before(a.ID)})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Position)
	})

	t.Run("between two items", func(t *testing.T) {
		got, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t4", Placement: playlist.Between(a.ID, b.ID)})
		require.NoError(t, err)
		assert.Equal(t, 1.5, got.Position)
	})

	t.Run("unknown neighbor", func(t *testing.T) {
		_, err := svc.Reorder(ctx, a.ID, playlist.Before("missing"))
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})

	t.Run("explicit position collision", func(t *testing.T) {
		_, err := svc.Reorder(ctx, a.ID, playlist.At(b.Position))
		assert.ErrorIs(t, err, store.ErrPositionTaken)
	})
}

func TestService_Reorder(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService("t1", "t2")

	a, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	require.NoError(t, err)
	b, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t2"})
	require.NoError(t, err)

	// Move B ahead of A: only A's position bounds the allocation.
	moved, err := svc.Reorder(ctx, b.ID, playlist.Before(a.ID))
	require.NoError(t, err)
	assert.Equal(t, 0.0, moved.Position)

	items := svc.List()
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)

	events := pub.all()
	require.Len(t, events, 3)
	assert.Equal(t, broadcast.TypeTrackMoved, events[2].Type)
	assert.Equal(t, 0.0, events[2].Item.Position)

	_, err = svc.Reorder(ctx, "", playlist.AtEnd())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Reorder(ctx, a.ID, playlist.Between("", ""))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Vote(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService("t1")

	item, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	require.NoError(t, err)

	up, err := svc.Vote(ctx, item.ID, playlist.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, up.Votes)

	down, err := svc.Vote(ctx, item.ID, playlist.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, down.Votes)

	_, err = svc.Vote(ctx, item.ID, playlist.Direction("sideways"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Vote(ctx, "missing", playlist.VoteUp)
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	events := pub.all()
	require.Len(t, events, 3)
	assert.Equal(t, broadcast.TypeTrackVoted, events[1].Type)
	assert.Equal(t, 1, events[1].Item.Votes)
}

func TestService_SetPlaying(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService("t1", "t2")

	a, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	require.NoError(t, err)
	b, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t2"})
	require.NoError(t, err)

	_, err = svc.SetPlaying(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.SetPlaying(ctx, b.ID)
	require.NoError(t, err)

	playing := 0
	for _, it := range svc.List() {
		if it.IsPlaying {
			playing++
			assert.Equal(t, b.ID, it.ID)
		}
	}
	assert.Equal(t, 1, playing)

	events := pub.all()
	require.Len(t, events, 4)
	assert.Equal(t, broadcast.TypeTrackPlaying, events[2].Type)
	assert.Equal(t, a.ID, events[2].ID)
	assert.Equal(t, b.ID, events[3].ID)
}

func TestService_RemoveTrack(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService("t1")

	item, err := svc.AddTrack(ctx, AddTrackCommand{TrackID: "t1"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveTrack(ctx, item.ID))
	assert.Empty(t, svc.List())

	assert.ErrorIs(t, svc.RemoveTrack(ctx, item.ID), store.ErrItemNotFound)
	assert.ErrorIs(t, svc.RemoveTrack(ctx, ""), ErrValidation)

	events := pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, broadcast.TypeTrackRemoved, events[1].Type)
	assert.Equal(t, item.ID, events[1].ID)
}
