package domain

import "time"

// User identifies the sender of an inbound event.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
}

// Event is a raw inbound message or button tap as delivered by a transport.
// Exactly one of Text or Payload is expected to be set.
type Event struct {
	ID         string    `json:"id,omitempty"`
	User       User      `json:"user"`
	Text       string    `json:"text,omitempty"`
	Payload    string    `json:"payload,omitempty"`
	PromptID   string    `json:"prompt_id,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

// IsTap reports whether the event is a button tap rather than a typed message.
func (e Event) IsTap() bool {
	return e.Payload != ""
}

// Command is a typed inbound command. The set of implementations is closed.
type Command interface {
	isCommand()
}

// Start is the /start command.
type Start struct{}

// Help asks what the bot can do.
type Help struct{}

// Greeting is a recognised salutation.
type Greeting struct{}

// Discover starts the discovery dialogue.
type Discover struct{}

// Text is free text typed by the user.
type Text struct {
	Body string
}

// PickCity is a tap on one of the offered cities.
type PickCity struct {
	Name     string
	PromptID string
}

// PickCategory is a tap on a category button.
type PickCategory struct {
	Code     string
	PromptID string
}

// UnknownTap is a button tap whose payload matches no known prefix.
type UnknownTap struct {
	Payload string
}

func (Start) isCommand()        {}
func (Help) isCommand()         {}
func (Greeting) isCommand()     {}
func (Discover) isCommand()     {}
func (Text) isCommand()         {}
func (PickCity) isCommand()     {}
func (PickCategory) isCommand() {}
func (UnknownTap) isCommand()   {}
