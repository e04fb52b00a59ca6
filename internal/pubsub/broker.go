package pubsub

import (
	"context"
	"sync"
	"time"
)

// Subscriber channels buffer this many undelivered events. The wizard's
// update loop drains one event per frame, so the slack covers bursts
// like a save cycle's scheduled/started/completed run.
const subscriberBuffer = 64

// Broker fans events out from one producer to any number of
// subscribers. The draft manager publishes from its debounce timer and
// save goroutines, so delivery must never block: a subscriber whose
// buffer is full loses the event instead of stalling the producer.
type Broker[T any] struct {
	mu   sync.RWMutex
	subs map[chan Event[T]]struct{}
	done chan struct{}
}

// NewBroker creates an empty broker.
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]struct{}),
		done: make(chan struct{}),
	}
}

// closed reports whether Close has run. Callers hold b.mu.
func (b *Broker[T]) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Subscribe registers a new subscriber. The returned channel closes
// when ctx is cancelled or the broker shuts down; subscribing to a
// closed broker yields an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := make(chan Event[T], subscriberBuffer)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed() {
			return // Close already took the channel down.
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish stamps an event and delivers it to every subscriber.
// Non-blocking: full subscribers drop the event.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed() {
		return
	}

	ev := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for sub := range b.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// Close shuts the broker down and closes every subscriber channel.
// Safe to call more than once.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}
	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}
