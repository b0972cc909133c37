package ports

import (
	"context"

	"github.com/aretw0/venuebot/pkg/domain"
)

// SessionStore defines the interface for keeping conversation sessions.
type SessionStore interface {
	// Save stores the session for a given user ID.
	Save(ctx context.Context, userID string, session *domain.Session) error

	// Load retrieves the session for a given user ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, userID string) (*domain.Session, error)

	// Delete removes the session for a given user ID.
	Delete(ctx context.Context, userID string) error

	// List returns the user IDs with a live session.
	List(ctx context.Context) ([]string, error)
}
