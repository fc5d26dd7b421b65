package connection

import (
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

// fakeConn records probes and closes.
type fakeConn struct {
	mu       sync.Mutex
	probes   int
	closed   bool
	probeErr error
}

func (c *fakeConn) Probe() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes++
	return c.probeErr
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func newTestManager(onEvict func(id string)) *Manager {
	return NewManager(time.Hour, 0, nil, onEvict)
}

func TestManager_TrackAndForget(t *testing.T) {
	m := newTestManager(nil)

	m.Track("c1", &fakeConn{})
	m.Track("c2", &fakeConn{})
	assert.Equal(t, 2, m.Count())

	m.Forget("c1")
	assert.Equal(t, 1, m.Count())

	m.Forget("unknown")
	assert.Equal(t, 1, m.Count())
}

func TestManager_ProbeEvictsAfterTwoSilentCycles(t *testing.T) {
	var evicted []string
	m := newTestManager(func(id string) { evicted = append(evicted, id) })

	conn := &fakeConn{}
	m.Track("c1", conn)

	// First cycle: alive flag is consumed, a ping goes out.
	m.probe()
	assert.Equal(t, 1, m.Count())
	assert.Empty(t, evicted)

	// No pong arrives: strike one.
	m.probe()
	assert.Equal(t, 1, m.Count())

	// Still silent: strike two, eviction.
	m.probe()
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, []string{"c1"}, evicted)
	assert.True(t, conn.isClosed())
}

func TestManager_MarkAliveResetsStrikes(t *testing.T) {
	m := newTestManager(nil)
	conn := &fakeConn{}
	m.Track("c1", conn)

	for i := 0; i < 10; i++ {
		m.probe()
		m.MarkAlive("c1")
	}

	assert.Equal(t, 1, m.Count())
	assert.False(t, conn.isClosed())
}

func TestManager_UnwritableConnCountsAsStrike(t *testing.T) {
	var evicted []string
	m := newTestManager(func(id string) { evicted = append(evicted, id) })

	conn := &fakeConn{probeErr: errors.New("broken pipe")}
	m.Track("c1", conn)

	// The failed write accrues strikes even faster than silence alone.
	m.probe()
	m.probe()
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, []string{"c1"}, evicted)
}

func TestManager_MarkAliveUnknownIDIsIgnored(t *testing.T) {
	m := newTestManager(nil)
	m.MarkAlive("ghost")
	assert.Equal(t, 0, m.Count())
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager(10*time.Millisecond, 0, nil, nil)
	conn := &fakeConn{}
	m.Track("c1", conn)
	m.MarkAlive("c1")

	m.Start()
	time.Sleep(35 * time.Millisecond)
	m.Stop()

	conn.mu.Lock()
	probes := conn.probes
	conn.mu.Unlock()
	assert.Greater(t, probes, 0)

	// Stop is idempotent.
	m.Stop()
}
