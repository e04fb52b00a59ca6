// Package pubsub carries regdraft's in-process events: the draft
// manager's autosave and validity stream, and log entries fanned out to
// debug listeners. Producers own their event vocabulary; this package
// defines only the envelope and the delivery machinery.
package pubsub

import (
	"context"
	"time"
)

// EventType names an event within its producer's vocabulary. The broker
// never interprets it; the draft manager and the logger each declare
// their own typed constants.
type EventType string

// Event is the envelope delivered to subscribers.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
