// Package connection provides subscriber lifecycle management: server-side
// liveness probing with eviction of dead subscribers, the periodic heartbeat
// envelope, and the reconnect policy clients follow after a disconnect.
package connection

import (
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/soramae/waxline/internal/app/broadcast"
)

// maxStrikes is the number of consecutive unanswered probes before eviction.
const maxStrikes = 2

// Conn is a probeable subscriber transport.
type Conn interface {
	// Probe sends a transport-level liveness check (a ws ping frame).
	Probe() error
	// Close tears the connection down.
	Close() error
}

type entry struct {
	conn    Conn
	alive   bool
	strikes int
}

// Manager owns the probe and heartbeat loops. It is created at server
// startup, injected where needed and stopped on shutdown; there is no
// package-level registry.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	probeInterval     time.Duration
	heartbeatInterval time.Duration
	publisher         *broadcast.Broadcaster
	onEvict           func(id string)

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates a connection manager. onEvict runs after a dead
// subscriber has been removed and closed, so the caller can drop it from the
// broadcaster's live set.
func NewManager(probeInterval, heartbeatInterval time.Duration, publisher *broadcast.Broadcaster, onEvict func(id string)) *Manager {
	return &Manager{
		entries:           make(map[string]*entry),
		probeInterval:     probeInterval,
		heartbeatInterval: heartbeatInterval,
		publisher:         publisher,
		onEvict:           onEvict,
		stopCh:            make(chan struct{}),
	}
}

// Track starts probing the given connection. The subscriber counts as alive
// until its first missed probe cycle.
func (m *Manager) Track(id string, conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = &entry{conn: conn, alive: true}
}

// Forget stops probing a subscriber, without closing it.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// MarkAlive records a liveness response (pong) for the subscriber.
func (m *Manager) MarkAlive(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.alive = true
		e.strikes = 0
	}
}

// Count returns the number of tracked subscribers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Start launches the probe and heartbeat loops.
func (m *Manager) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.probe()
			}
		}
	}()

	if m.publisher != nil && m.heartbeatInterval > 0 {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			ticker := time.NewTicker(m.heartbeatInterval)
			defer ticker.Stop()
			for {
				select {
				case <-m.stopCh:
					return
				case <-ticker.C:
					m.publisher.Publish(broadcast.Heartbeat())
				}
			}
		}()
	}
}

// Stop terminates the loops and waits for them to exit.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

// probe runs one liveness cycle. A subscriber that entered the cycle without
// having answered the previous probe accrues a strike; two consecutive
// strikes evict it.
func (m *Manager) probe() {
	var evicted []string

	m.mu.Lock()
	for id, e := range m.entries {
		if !e.alive {
			e.strikes++
			if e.strikes >= maxStrikes {
				delete(m.entries, id)
				_ = e.conn.Close()
				evicted = append(evicted, id)
				continue
			}
		}
		e.alive = false
		if err := e.conn.Probe(); err != nil {
			// An unwritable connection is as dead as an unanswered one.
			e.strikes++
		}
	}
	m.mu.Unlock()

	for _, id := range evicted {
		zlog.Info().Msgf("connection: evicted dead subscriber %s", id)
		if m.onEvict != nil {
			m.onEvict(id)
		}
	}
}
