package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ContinuousListener bridges a broker subscription into a Bubble Tea
// program: Listen returns a command resolving to the next event, and the
// model re-arms it from Update after handling each delivery.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to the broker. The subscription ends
// with the context.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Listen returns a command that waits for the next Event[T]. It resolves
// to nil once the context is cancelled or the subscription closes, which
// ends the listen loop.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-l.ctx.Done():
			return nil
		case event, ok := <-l.ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}
