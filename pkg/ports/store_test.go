package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/ports"
)

// MockStore is a minimal map-backed SessionStore used to exercise the contract suite.
type MockStore struct {
	data map[string]*domain.Session
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Session),
	}
}

func (m *MockStore) Save(ctx context.Context, userID string, session *domain.Session) error {
	m.data[userID] = session.Snapshot()
	return nil
}

func (m *MockStore) Load(ctx context.Context, userID string) (*domain.Session, error) {
	session, ok := m.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

func (m *MockStore) Delete(ctx context.Context, userID string) error {
	delete(m.data, userID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSessionStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewMockStore())
}

func TestEventHandlerFunc(t *testing.T) {
	called := false
	var h ports.EventHandler = ports.EventHandlerFunc(func(ctx context.Context, ev domain.Event) ([]domain.Reply, error) {
		called = true
		return nil, nil
	})
	_, _ = h.HandleEvent(context.Background(), domain.Event{})
	if !called {
		t.Error("expected wrapped function to be called")
	}
}
