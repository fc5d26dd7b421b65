// Package client provides the Go client for a waxline server: HTTP commands,
// the reconnecting event subscription, and the optimistic local overlay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/soramae/waxline/internal/domain/playlist"
	"github.com/soramae/waxline/internal/domain/track"
)

// APIError is a typed error returned by the server.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client issues commands against the HTTP surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL (e.g. http://localhost:4000).
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

// List fetches the full playlist. This is also the reconciliation call after
// a reconnect: the server keeps no event history, so the full state is the
// only source of truth.
func (c *Client) List(ctx context.Context) ([]playlist.Item, error) {
	var items []playlist.Item
	err := c.do(ctx, http.MethodGet, "/api/playlist", nil, &items)
	return items, err
}

// ListTracks fetches the track library.
func (c *Client) ListTracks(ctx context.Context) ([]track.Track, error) {
	var tracks []track.Track
	err := c.do(ctx, http.MethodGet, "/api/tracks", nil, &tracks)
	return tracks, err
}

// AddTrackRequest mirrors the POST /api/playlist body.
type AddTrackRequest struct {
	TrackID  string   `json:"track_id"`
	AddedBy  string   `json:"added_by,omitempty"`
	Position *float64 `json:"position,omitempty"`
	BeforeID string   `json:"before_id,omitempty"`
	AfterID  string   `json:"after_id,omitempty"`
}

// AddTrack queues a track.
func (c *Client) AddTrack(ctx context.Context, req AddTrackRequest) (playlist.Item, error) {
	var item playlist.Item
	err := c.do(ctx, http.MethodPost, "/api/playlist", req, &item)
	return item, err
}

// Remove deletes a playlist item.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/playlist/"+id, nil, nil)
}

// MoveRequest mirrors the reorder fields of PATCH /api/playlist/{id}.
type MoveRequest struct {
	Position *float64 `json:"position,omitempty"`
	BeforeID string   `json:"before_id,omitempty"`
	AfterID  string   `json:"after_id,omitempty"`
}

// Move reorders a playlist item.
func (c *Client) Move(ctx context.Context, id string, req MoveRequest) (playlist.Item, error) {
	var item playlist.Item
	err := c.do(ctx, http.MethodPatch, "/api/playlist/"+id, req, &item)
	return item, err
}

// Vote applies an up or down vote.
func (c *Client) Vote(ctx context.Context, id string, direction playlist.Direction) (playlist.Item, error) {
	var item playlist.Item
	body := map[string]string{"direction": string(direction)}
	err := c.do(ctx, http.MethodPost, "/api/playlist/"+id+"/vote", body, &item)
	return item, err
}

// SetPlaying marks an item as now playing.
func (c *Client) SetPlaying(ctx context.Context, id string) (playlist.Item, error) {
	var item playlist.Item
	body := map[string]bool{"is_playing": true}
	err := c.do(ctx, http.MethodPatch, "/api/playlist/"+id, body, &item)
	return item, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
			return errors.Newf("server returned status %d", resp.StatusCode)
		}
		envelope.Error.Status = resp.StatusCode
		return &envelope.Error
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "failed to decode response")
		}
	}
	return nil
}
