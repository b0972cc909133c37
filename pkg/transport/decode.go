package transport

import (
	"strings"

	"github.com/aretw0/venuebot/pkg/domain"
)

// Payload prefixes used by inline keyboards.
const (
	CityPrefix     = "city_"
	CategoryPrefix = "cat_"
)

// Texts of the main menu buttons. A menu button tap arrives as plain text.
const (
	MenuDiscover = "Куда сходить"
	MenuHelp     = "Что ты можешь"
)

// Slash commands.
const (
	CommandStart = "/start"
	CommandHelp  = "/help"
)

var greetings = map[string]struct{}{
	"привет":      {},
	"здравствуйте": {},
	"хай":         {},
	"добрый день": {},
}

// CityPayload builds the tap payload for a city disambiguation button.
func CityPayload(name string) string {
	return CityPrefix + name
}

// CategoryPayload builds the tap payload for a category button.
func CategoryPayload(code string) string {
	return CategoryPrefix + code
}

// Decode classifies an inbound event.
// Taps are routed by payload prefix, typed messages by their canned text.
func Decode(ev domain.Event) domain.Command {
	if ev.IsTap() {
		return decodeTap(ev)
	}
	return decodeText(ev.Text)
}

func decodeTap(ev domain.Event) domain.Command {
	switch {
	case strings.HasPrefix(ev.Payload, CityPrefix):
		return domain.PickCity{
			Name:     strings.TrimPrefix(ev.Payload, CityPrefix),
			PromptID: ev.PromptID,
		}
	case strings.HasPrefix(ev.Payload, CategoryPrefix):
		return domain.PickCategory{
			Code:     strings.TrimPrefix(ev.Payload, CategoryPrefix),
			PromptID: ev.PromptID,
		}
	default:
		return domain.UnknownTap{Payload: ev.Payload}
	}
}

func decodeText(text string) domain.Command {
	trimmed := strings.TrimSpace(text)

	switch {
	case hasCommand(trimmed, CommandStart):
		return domain.Start{}
	case hasCommand(trimmed, CommandHelp), trimmed == MenuHelp:
		return domain.Help{}
	case trimmed == MenuDiscover:
		return domain.Discover{}
	case IsGreeting(trimmed):
		return domain.Greeting{}
	}
	return domain.Text{Body: text}
}

// hasCommand matches "/start", "/start payload" and "/start@botname".
func hasCommand(text, cmd string) bool {
	if !strings.HasPrefix(text, cmd) {
		return false
	}
	rest := text[len(cmd):]
	return rest == "" || rest[0] == ' ' || rest[0] == '@'
}

// IsGreeting reports whether text is one of the recognised salutations, ignoring case.
func IsGreeting(text string) bool {
	_, ok := greetings[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
