package domain

import "time"

// ConversationState is the position of a user in the discovery dialogue.
type ConversationState string

const (
	StateIdle             ConversationState = "idle"              // Main menu
	StateAwaitingCity     ConversationState = "awaiting_city"     // Asked for a city name
	StateSelectingCity    ConversationState = "selecting_city"    // Offered several matching cities
	StateAwaitingCategory ConversationState = "awaiting_category" // City known, asked for a category
)

// Session represents the transient conversation state of one user.
type Session struct {
	// UserID identifies the owner of the session.
	UserID string `json:"user_id"`

	// State is the current dialogue state.
	State ConversationState `json:"state"`

	// CityID and CityName hold the chosen city once resolved.
	CityID   CityID `json:"city_id,omitempty"`
	CityName string `json:"city_name,omitempty"`

	// Offered holds the cities presented for disambiguation while in SelectingCity.
	Offered []City `json:"offered,omitempty"`

	// PromptID identifies the last inline keyboard sent to the user.
	// Taps carrying a different prompt id are stale.
	PromptID string `json:"prompt_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted session when a sealing store wraps the backend.
	// The dialogue fields are empty in that case.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a clean Idle session for a user.
func NewSession(userID string) *Session {
	return &Session{
		UserID: userID,
		State:  StateIdle,
	}
}

// Reset returns the session to Idle and forgets everything collected so far.
func (s *Session) Reset() {
	s.State = StateIdle
	s.CityID = ""
	s.CityName = ""
	s.Offered = nil
	s.PromptID = ""
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Offered != nil {
		cp.Offered = make([]City, len(s.Offered))
		copy(cp.Offered, s.Offered)
	}
	return &cp
}

// OfferedCity returns the offered city with the given display name.
func (s *Session) OfferedCity(name string) (City, bool) {
	for _, c := range s.Offered {
		if c.Name == name {
			return c, true
		}
	}
	return City{}, false
}
