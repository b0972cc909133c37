package ports

import (
	"context"

	"github.com/aretw0/venuebot/pkg/domain"
)

// EventHandler processes one inbound event for its user.
// Implementations are called with events of a single user strictly in arrival order.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev domain.Event) ([]domain.Reply, error)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, ev domain.Event) ([]domain.Reply, error)

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, ev domain.Event) ([]domain.Reply, error) {
	return f(ctx, ev)
}
