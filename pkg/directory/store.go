package directory

import (
	"sync/atomic"

	"github.com/aretw0/venuebot/pkg/domain"
)

// Store holds the current Directory. It is safe for concurrent use; readers always see
// either the previous or the next Directory in full.
type Store struct {
	current atomic.Pointer[Directory]
}

// NewStore creates a Store holding the given Directory (nil means empty).
func NewStore(initial *Directory) *Store {
	s := &Store{}
	if initial == nil {
		initial = Build(nil)
	}
	s.current.Store(initial)
	return s
}

// Load returns the current Directory.
func (s *Store) Load() *Directory {
	return s.current.Load()
}

// Swap installs a new Directory and returns the previous one.
func (s *Store) Swap(next *Directory) *Directory {
	if next == nil {
		next = Build(nil)
	}
	return s.current.Swap(next)
}

// Resolve runs Resolve against the current Directory.
func (s *Store) Resolve(raw string) []domain.City {
	return Resolve(s.Load(), raw)
}
