package domain

// KeyboardKind tells the transport how to attach buttons to a reply.
type KeyboardKind string

const (
	// KeyboardNone leaves the user's current keyboard untouched.
	KeyboardNone KeyboardKind = ""
	// KeyboardMenu is a persistent reply keyboard whose buttons send their label as text.
	KeyboardMenu KeyboardKind = "menu"
	// KeyboardInline attaches buttons to the message; taps deliver the button payload.
	KeyboardInline KeyboardKind = "inline"
	// KeyboardRemove hides a previously shown menu keyboard.
	KeyboardRemove KeyboardKind = "remove"
)

// Button is a single keyboard button.
type Button struct {
	Label   string `json:"label"`
	Payload string `json:"payload,omitempty"`
}

// Keyboard describes the buttons attached to a reply.
type Keyboard struct {
	Kind KeyboardKind `json:"kind,omitempty"`
	Rows [][]Button   `json:"rows,omitempty"`
}

// Buttons returns the buttons in display order.
func (k Keyboard) Buttons() []Button {
	var out []Button
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}

// Reply is an outbound message the host should deliver to the user.
type Reply struct {
	Text     string   `json:"text"`
	Keyboard Keyboard `json:"keyboard,omitempty"`

	// PromptID is set when the keyboard is inline; taps should echo it back.
	PromptID string `json:"prompt_id,omitempty"`

	// Dismiss asks the transport to remove the inline keyboard of the tapped message.
	Dismiss bool `json:"dismiss,omitempty"`
}
