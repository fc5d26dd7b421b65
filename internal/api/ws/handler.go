// Package ws provides the WebSocket event channel: it upgrades connections,
// registers them as broadcast subscribers and wires them into the connection
// manager's liveness probing.
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/connection"
	"github.com/soramae/waxline/internal/infra/config"
)

var upgrader = websocket.Upgrader{
	// The server is expected to run behind a gateway that enforces origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests into subscriber connections.
type Handler struct {
	broadcaster *broadcast.Broadcaster
	conns       *connection.Manager
	cfg         config.WebSocketConfig
}

// NewHandler creates a WebSocket handler.
func NewHandler(b *broadcast.Broadcaster, conns *connection.Manager, cfg config.WebSocketConfig) *Handler {
	return &Handler{broadcaster: b, conns: conns, cfg: cfg}
}

// welcome is the first frame sent on every new connection.
type welcome struct {
	Type     string    `json:"type"`
	ClientID string    `json:"client_id"`
	Ts       time.Time `json:"ts"`
}

// pong answers an application-level ping envelope.
type pong struct {
	Type string    `json:"type"`
	Ts   time.Time `json:"ts"`
}

// HandleWS upgrades the request and runs the subscriber until it disconnects
// or is evicted.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Warn().Msgf("ws: upgrade failed: %v", err)
		return
	}

	client := newClient(conn, h.cfg.SendBuffer, h.cfg.WriteTimeout())
	id := h.broadcaster.Subscribe(client)
	client.onAlive = func() { h.conns.MarkAlive(id) }
	client.onMessage = func(msgType string) {
		if msgType == "ping" {
			if data, err := json.Marshal(pong{Type: "pong", Ts: time.Now().UTC()}); err == nil {
				_ = client.enqueue(data)
			}
		}
	}
	h.conns.Track(id, client)

	if data, err := json.Marshal(welcome{Type: "connected", ClientID: id, Ts: time.Now().UTC()}); err == nil {
		_ = client.enqueue(data)
	}

	zlog.Info().Msgf("ws: subscriber %s connected (total %d)", id, h.broadcaster.SubscriberCount())

	go client.writePump()
	go func() {
		client.readPump()
		h.broadcaster.Unsubscribe(id)
		h.conns.Forget(id)
		_ = client.Close()
		zlog.Info().Msgf("ws: subscriber %s disconnected (total %d)", id, h.broadcaster.SubscriberCount())
	}()
}
