package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/app/broadcast"
)

// Client is one subscriber connection. Writes go through a buffered send
// channel drained by a single writer goroutine; control pings are written
// directly since gorilla allows WriteControl concurrently with other writes.
type Client struct {
	conn         *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration
	onAlive      func()
	onMessage    func(msgType string)

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, sendBuffer int, writeTimeout time.Duration) *Client {
	return &Client{
		conn:         conn,
		send:         make(chan []byte, sendBuffer),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

// Send implements broadcast.Subscriber. A subscriber whose buffer is full is
// treated as dead for this event; the probe loop will evict it if it stays
// unresponsive.
func (c *Client) Send(event broadcast.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}
	return c.enqueue(data)
}

func (c *Client) enqueue(data []byte) error {
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		return errors.New("send buffer full")
	}
}

// Probe implements connection.Conn with a ws ping frame.
func (c *Client) Probe() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

// Close implements connection.Conn.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return c.conn.Close()
}

// writePump drains the send channel onto the connection.
func (c *Client) writePump() {
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				zlog.Debug().Msgf("ws: write failed: %v", err)
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// inbound is the only message shape clients send.
type inbound struct {
	Type string `json:"type"`
}

// readPump consumes client frames until the connection dies. Transport pongs
// and application-level ping/pong envelopes all count as liveness.
func (c *Client) readPump() {
	c.conn.SetPongHandler(func(string) error {
		if c.onAlive != nil {
			c.onAlive()
		}
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if c.onAlive != nil {
			c.onAlive()
		}
		if c.onMessage != nil {
			c.onMessage(msg.Type)
		}
	}
}
