package rest

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/app/mutation"
	"github.com/soramae/waxline/internal/app/store"
	"github.com/soramae/waxline/internal/domain/track"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			zlog.Error().Msgf("rest: failed to encode response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message, Details: details}})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal failure in a collaborator and is logged but
// not leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mutation.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, track.ErrNotFound):
		writeError(w, http.StatusNotFound, "TRACK_NOT_FOUND", "Track not found", nil)
	case errors.Is(err, store.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Playlist item not found", nil)
	case errors.Is(err, store.ErrDuplicateTrack):
		writeError(w, http.StatusConflict, "DUPLICATE_TRACK", "This track is already in the playlist", nil)
	case errors.Is(err, store.ErrPositionTaken):
		writeError(w, http.StatusConflict, "POSITION_CONFLICT", "Another item already holds this position", nil)
	default:
		zlog.Error().Msgf("rest: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error", nil)
	}
}
