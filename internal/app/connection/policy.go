package connection

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrReconnectExhausted is returned once a client has spent its reconnect
// attempt budget without re-establishing a connection.
var ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

// ReconnectPolicy is the client-side contract after a disconnect: retry with
// exponential backoff from BaseDelay, capped at MaxDelay, giving up after
// MaxAttempts. After every successful reconnect the client must fetch the
// full playlist instead of assuming continuity with pre-disconnect state.
type ReconnectPolicy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// DefaultReconnectPolicy mirrors the reference client: 1s base, 30s cap,
// 10 attempts.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		MaxAttempts: 10,
	}
}

// Delay returns the backoff before reconnect attempt n (zero-based).
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Exhausted reports whether the attempt budget is spent.
func (p ReconnectPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}
