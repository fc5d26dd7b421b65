package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/mutation"
	"github.com/soramae/waxline/internal/app/store"
	"github.com/soramae/waxline/internal/domain/playlist"
	"github.com/soramae/waxline/internal/domain/track"
)

type fakeCatalog struct {
	tracks map[string]track.Track
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

type nopPublisher struct{}

func (nopPublisher) Publish(broadcast.Event) {}

func testServer(trackIDs ...string) *httptest.Server {
	catalog := &fakeCatalog{tracks: make(map[string]track.Track)}
	for _, id := range trackIDs {
		catalog.tracks[id] = track.Track{ID: id, Title: "Title " + id, Artist: "Artist"}
	}
	svc := mutation.NewService(store.New(nil, nil), catalog, nopPublisher{})
	return httptest.NewServer(NewServer(svc, catalog, nil).Router())
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decode[map[string]map[string]any](t, resp)
	code, _ := body["error"]["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	srv := testServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestAddTrack(t *testing.T) {
	srv := testServer("t1", "t2")
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{
		"track_id": "t1",
		"added_by": "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	item := decode[playlist.Item](t, resp)
	assert.Equal(t, "t1", item.TrackID)
	assert.Equal(t, 1.0, item.Position)
	assert.Equal(t, "alice", item.AddedBy)

	t.Run("duplicate is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t1"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "DUPLICATE_TRACK", errorCode(t, resp))
	})

	t.Run("unknown track", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "nope"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "TRACK_NOT_FOUND", errorCode(t, resp))
	})

	t.Run("missing track_id", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, resp))
	})

	t.Run("before neighbor", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{
			"track_id":  "t2",
			"before_id": item.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		got := decode[playlist.Item](t, resp)
		assert.Equal(t, 0.0, got.Position)
	})
}

func TestListPlaylist(t *testing.T) {
	srv := testServer("t1", "t2")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/playlist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]playlist.Item](t, resp))

	doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t1"})
	doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t2"})

	resp, err = http.Get(srv.URL + "/api/playlist")
	require.NoError(t, err)
	items := decode[[]playlist.Item](t, resp)
	require.Len(t, items, 2)
	assert.Less(t, items[0].Position, items[1].Position)
}

func TestUpdateItem(t *testing.T) {
	srv := testServer("t1", "t2")
	defer srv.Close()

	a := decode[playlist.Item](t, doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t1"}))
	b := decode[playlist.Item](t, doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t2"}))

	t.Run("move before", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/playlist/"+b.ID, map[string]string{"before_id": a.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		moved := decode[playlist.Item](t, resp)
		assert.Equal(t, 0.0, moved.Position)
	})

	t.Run("set playing", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/playlist/"+a.ID, map[string]bool{"is_playing": true})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[playlist.Item](t, resp)
		assert.True(t, got.IsPlaying)
		assert.NotNil(t, got.PlayedAt)
	})

	t.Run("clearing the flag is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/playlist/"+a.ID, map[string]bool{"is_playing": false})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/playlist/"+a.ID, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown item", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/playlist/missing", map[string]bool{"is_playing": true})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "ITEM_NOT_FOUND", errorCode(t, resp))
	})

	t.Run("position collision", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, srv.URL+"/api/playlist/"+a.ID, map[string]float64{"position": 0.0})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "POSITION_CONFLICT", errorCode(t, resp))
	})
}

func TestVote(t *testing.T) {
	srv := testServer("t1")
	defer srv.Close()

	item := decode[playlist.Item](t, doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t1"}))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist/"+item.ID+"/vote", map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[playlist.Item](t, resp).Votes)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/playlist/"+item.ID+"/vote", map[string]string{"direction": "down"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[playlist.Item](t, resp).Votes)

	t.Run("invalid direction", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/playlist/"+item.ID+"/vote", map[string]string{"direction": "sideways"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRemoveTrack(t *testing.T) {
	srv := testServer("t1")
	defer srv.Close()

	item := decode[playlist.Item](t, doJSON(t, http.MethodPost, srv.URL+"/api/playlist", map[string]string{"track_id": "t1"}))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/playlist/"+item.ID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTracks(t *testing.T) {
	srv := testServer("t1", "t2")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/tracks")
	require.NoError(t, err)
	assert.Len(t, decode[[]track.Track](t, resp), 2)

	resp, err = http.Get(srv.URL + "/api/tracks/t1")
	require.NoError(t, err)
	assert.Equal(t, "Title t1", decode[track.Track](t, resp).Title)

	resp, err = http.Get(srv.URL + "/api/tracks/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "TRACK_NOT_FOUND", errorCode(t, resp))
}
