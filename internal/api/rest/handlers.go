package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soramae/waxline/internal/app/mutation"
	"github.com/soramae/waxline/internal/domain/playlist"
)

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.ListTracks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	tr, err := s.catalog.GetTrack(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleListPlaylist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.mutations.List())
}

type addTrackRequest struct {
	TrackID  string   `json:"track_id"`
	AddedBy  string   `json:"added_by"`
	Position *float64 `json:"position"`
	BeforeID string   `json:"before_id"`
	AfterID  string   `json:"after_id"`
}

// placement resolves the request's placement fields. Explicit position wins,
// then neighbor references, then end-of-playlist.
func (req *addTrackRequest) placement() playlist.Placement {
	switch {
	case req.Position != nil:
		return playlist.At(*req.Position)
	case req.BeforeID != "" || req.AfterID != "":
		return playlist.Between(req.AfterID, req.BeforeID)
	default:
		return playlist.AtEnd()
	}
}

func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	var req addTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}

	item, err := s.mutations.AddTrack(r.Context(), mutation.AddTrackCommand{
		TrackID:   req.TrackID,
		AddedBy:   req.AddedBy,
		Placement: req.placement(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type updateItemRequest struct {
	Position  *float64 `json:"position"`
	BeforeID  string   `json:"before_id"`
	AfterID   string   `json:"after_id"`
	IsPlaying *bool    `json:"is_playing"`
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}

	hasMove := req.Position != nil || req.BeforeID != "" || req.AfterID != ""
	if !hasMove && req.IsPlaying == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "nothing to update", nil)
		return
	}
	if req.IsPlaying != nil && !*req.IsPlaying {
		// The playing flag moves between items; it is never cleared directly.
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "is_playing cannot be set to false", nil)
		return
	}

	var item playlist.Item
	var err error

	if hasMove {
		var placement playlist.Placement
		if req.Position != nil {
			placement = playlist.At(*req.Position)
		} else {
			placement = playlist.Between(req.AfterID, req.BeforeID)
		}
		item, err = s.mutations.Reorder(r.Context(), id, placement)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	if req.IsPlaying != nil {
		item, err = s.mutations.SetPlaying(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, item)
}

type voteRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}

	item, err := s.mutations.Vote(r.Context(), id, playlist.Direction(req.Direction))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	if err := s.mutations.RemoveTrack(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
