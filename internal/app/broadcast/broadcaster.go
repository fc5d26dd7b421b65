// Package broadcast provides best-effort fan-out of domain events to live
// subscribers. Delivery is fire-and-forget: there is no retry and no replay
// log, so a subscriber that reconnects after a gap must reconcile by fetching
// the full playlist instead of expecting missed events.
package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// defaultSendTimeout bounds how long Publish waits on a single subscriber.
const defaultSendTimeout = 500 * time.Millisecond

// Subscriber receives events. Implementations must not block indefinitely.
type Subscriber interface {
	Send(Event) error
}

// Broadcaster manages the live subscriber set and fans events out to it.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	sendTimeout time.Duration
}

// New creates an empty broadcaster.
func New() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]Subscriber),
		sendTimeout: defaultSendTimeout,
	}
}

// Subscribe adds a subscriber and returns its ID.
func (b *Broadcaster) Subscribe(sub Subscriber) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()
	b.subscribers[id] = sub
	return id
}

// Unsubscribe removes a subscriber. Unknown IDs are ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, id)
}

// SubscriberCount returns the number of live subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish delivers the event to every subscriber live at the moment of the
// call. Sends run concurrently with a per-subscriber timeout; a failed or
// slow send is dropped and never propagates to the caller, so a dead
// subscriber can never fail the mutation that triggered the event.
func (b *Broadcaster) Publish(event Event) {
	if event.Ts.IsZero() {
		event.Ts = time.Now().UTC()
	}

	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub Subscriber) {
			defer wg.Done()

			done := make(chan error, 1)
			go func() { done <- sub.Send(event) }()

			select {
			case err := <-done:
				if err != nil {
					zlog.Debug().Msgf("broadcast: dropped event %s for subscriber: %v", event.Type, err)
				}
			case <-time.After(b.sendTimeout):
				zlog.Debug().Msgf("broadcast: send timed out for event %s", event.Type)
			}
		}(sub)
	}
	wg.Wait()
}

// Close removes all subscribers.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[string]Subscriber)
}
