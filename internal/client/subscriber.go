package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/connection"
)

const heartbeatInterval = 25 * time.Second

// Subscriber maintains the WebSocket event stream. On disconnect it retries
// with the reconnect policy and, once reconnected, signals OnConnect so the
// caller can refetch the playlist; delivery gaps during the outage are not
// replayed by the server.
type Subscriber struct {
	url    string
	policy connection.ReconnectPolicy

	// writeMu serializes frames from the heartbeat ticker and ping replies;
	// gorilla connections allow only one concurrent writer.
	writeMu sync.Mutex

	// OnEvent receives every domain event. Heartbeat traffic is answered
	// internally and not surfaced.
	OnEvent func(broadcast.Event)

	// OnConnect fires after every successful (re)connect with the server
	// assigned client id. Callers should reload state here.
	OnConnect func(clientID string)
}

// NewSubscriber creates a subscriber for a ws:// URL.
func NewSubscriber(url string, policy connection.ReconnectPolicy) *Subscriber {
	return &Subscriber{url: url, policy: policy}
}

// Run connects and processes events until the context is cancelled or the
// reconnect budget is exhausted. Every established session resets the
// budget: the attempt count bounds one outage, not the process lifetime.
func (s *Subscriber) Run(ctx context.Context) error {
	attempt := 0
	for {
		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			attempt = 0
		}

		if s.policy.Exhausted(attempt) {
			return connection.ErrReconnectExhausted
		}
		delay := s.policy.Delay(attempt)
		attempt++
		zlog.Warn().Msgf("subscriber: connection lost, retrying in %s (attempt %d/%d): %v",
			delay, attempt, s.policy.MaxAttempts, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// session runs one connection from dial to disconnect. The boolean reports
// whether the dial succeeded, regardless of how the session later ended.
func (s *Subscriber) session(ctx context.Context) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	go s.heartbeat(ctx, conn, done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}

		var event broadcast.Event
		if err := json.Unmarshal(data, &event); err != nil {
			zlog.Debug().Msgf("subscriber: dropping malformed frame: %v", err)
			continue
		}

		switch event.Type {
		case "connected":
			var hello struct {
				ClientID string `json:"client_id"`
			}
			_ = json.Unmarshal(data, &hello)
			if s.OnConnect != nil {
				s.OnConnect(hello.ClientID)
			}
		case broadcast.TypePing:
			if err := s.writeEnvelope(conn, "pong"); err != nil {
				return true, err
			}
		case "pong":
			// Answer to our own heartbeat, nothing to surface.
		default:
			if s.OnEvent != nil {
				s.OnEvent(event)
			}
		}
	}
}

// heartbeat sends the application-level ping envelope so the server's probe
// loop sees the connection as alive even when no events flow.
func (s *Subscriber) heartbeat(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if err := s.writeEnvelope(conn, "ping"); err != nil {
				return
			}
		}
	}
}

func (s *Subscriber) writeEnvelope(conn *websocket.Conn, envelopeType string) error {
	data, err := json.Marshal(map[string]any{"type": envelopeType, "ts": time.Now().UTC()})
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}
