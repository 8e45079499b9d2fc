// Package events implements the lifecycle event stream (§4.9, §6 Wire
// Contract): a single-producer, multi-consumer bounded fan-out grounded on
// the teacher pack's EventBroadcaster (register/unregister a per-subscriber
// channel, publish to every registered channel).
package events

import "sync"

// Event is the wire shape of a lifecycle event — one per node-level action
// (routed, enhanced, comprehension_test_generated, checked, decomposed).
type Event struct {
	Type    string            `json:"type"`
	TaskID  string            `json:"task_id"`
	Payload map[string]string `json:"payload,omitempty"`
}

// subscriberBuffer is the bound on each subscriber's channel. A slow
// subscriber drops its oldest buffered event rather than blocking the
// publisher — the broadcaster never applies backpressure to node execution.
const subscriberBuffer = 64

// Broadcaster fans Publish calls out to every current subscriber.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	nextID      int
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[int]chan Event)}
}

// Subscribe registers a new consumer and returns its channel along with an
// unsubscribe function. The channel is closed once unsubscribe runs.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(existing)
		}
	}
	return ch, unsubscribe
}

// Publish delivers ev to every current subscriber, dropping the oldest
// buffered event for any subscriber whose channel is full rather than
// blocking the caller.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// SubscriberCount reports the number of currently registered subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
