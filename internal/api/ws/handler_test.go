package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soramae/waxline/internal/app/broadcast"
	"github.com/soramae/waxline/internal/app/connection"
	"github.com/soramae/waxline/internal/infra/config"
)

func testConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		HeartbeatIntervalSec: 25,
		ProbeIntervalSec:     30,
		WriteTimeoutMs:       1000,
		SendBuffer:           16,
	}
}

func dialTestServer(t *testing.T) (*broadcast.Broadcaster, *connection.Manager, *websocket.Conn) {
	t.Helper()

	b := broadcast.New()
	conns := connection.NewManager(time.Hour, 0, nil, nil)
	handler := NewHandler(b, conns, testConfig())

	srv := httptest.NewServer(http.HandlerFunc(handler.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return b, conns, conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestHandler_WelcomeFrame(t *testing.T) {
	b, conns, conn := dialTestServer(t)

	frame := readFrame(t, conn)
	assert.Equal(t, "connected", frame["type"])
	assert.NotEmpty(t, frame["client_id"])
	assert.NotEmpty(t, frame["ts"])

	assert.Equal(t, 1, b.SubscriberCount())
	assert.Equal(t, 1, conns.Count())
}

func TestHandler_EventDelivery(t *testing.T) {
	b, _, conn := dialTestServer(t)
	readFrame(t, conn) // welcome

	b.Publish(broadcast.TrackRemoved("item-1"))

	frame := readFrame(t, conn)
	assert.Equal(t, broadcast.TypeTrackRemoved, frame["type"])
	assert.Equal(t, "item-1", frame["id"])
}

func TestHandler_ApplicationPing(t *testing.T) {
	_, _, conn := dialTestServer(t)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	frame := readFrame(t, conn)
	assert.Equal(t, "pong", frame["type"])
	assert.NotEmpty(t, frame["ts"])
}

func TestHandler_DisconnectCleansUp(t *testing.T) {
	b, conns, conn := dialTestServer(t)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return b.SubscriberCount() == 0 && conns.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
