// Package rest provides the HTTP command surface. Each handler maps one
// request to one MutationService command; all playlist writes go through the
// service so the handlers never touch store state directly.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soramae/waxline/internal/app/mutation"
	"github.com/soramae/waxline/internal/domain/track"
)

// WSHandler is the websocket upgrade endpoint plugged into the router.
type WSHandler interface {
	HandleWS(w http.ResponseWriter, r *http.Request)
}

// Server holds the handler dependencies.
type Server struct {
	mutations *mutation.Service
	catalog   track.Catalog
	ws        WSHandler
}

// NewServer creates the HTTP server surface.
func NewServer(mutations *mutation.Service, catalog track.Catalog, ws WSHandler) *Server {
	return &Server{mutations: mutations, catalog: catalog, ws: ws}
}

// Router builds the route tree.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tracks", s.handleListTracks)
		r.Get("/tracks/{id}", s.handleGetTrack)

		r.Get("/playlist", s.handleListPlaylist)
		r.Post("/playlist", s.handleAddTrack)
		r.Patch("/playlist/{id}", s.handleUpdateItem)
		r.Post("/playlist/{id}/vote", s.handleVote)
		r.Delete("/playlist/{id}", s.handleRemoveTrack)
	})

	if s.ws != nil {
		r.Get("/ws", s.ws.HandleWS)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "waxline",
	})
}
