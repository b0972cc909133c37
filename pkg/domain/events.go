package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventTransition   EventType = "transition"
	EventCatalogQuery EventType = "catalog_query"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
}

// TransitionEvent is emitted after a command has been applied to a session.
type TransitionEvent struct {
	EventBase
	From    ConversationState `json:"from"`
	To      ConversationState `json:"to"`
	Command string            `json:"command"`
	Replies int               `json:"replies"`
}

// CatalogQueryEvent is emitted after a category search.
type CatalogQueryEvent struct {
	EventBase
	CityID   CityID        `json:"city_id"`
	Category string        `json:"category"`
	Results  int           `json:"results"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for state machine observability.
type LifecycleHooks struct {
	OnTransition   func(context.Context, *TransitionEvent)
	OnCatalogQuery func(context.Context, *CatalogQueryEvent)
}
