package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/directory"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/render"
	"github.com/aretw0/venuebot/pkg/session"
	"github.com/aretw0/venuebot/pkg/transport"
	"github.com/google/uuid"
)

// Searcher finds venues of a category in a resolved city.
// Implementations never fail: problems surface as an empty result.
type Searcher interface {
	Search(ctx context.Context, cityID domain.CityID, code string) []domain.Venue
}

// errStale aborts a session update without saving when a command is dropped.
var errStale = errors.New("stale command")

// Machine drives the discovery dialogue for every user.
type Machine struct {
	sessions   *session.Manager
	directory  *directory.Store
	searcher   Searcher
	categories *domain.CategorySet
	sanitizer  transport.Sanitizer

	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	promptID func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithCategories replaces the default category set.
func WithCategories(set *domain.CategorySet) Option {
	return func(m *Machine) {
		if set != nil {
			m.categories = set
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithPromptIDs overrides how inline keyboard prompt ids are generated.
func WithPromptIDs(gen func() string) Option {
	return func(m *Machine) {
		if gen != nil {
			m.promptID = gen
		}
	}
}

// WithMaxInputSize sets the byte limit applied to inbound texts and payloads.
func WithMaxInputSize(n int) Option {
	return func(m *Machine) {
		m.sanitizer = transport.NewSanitizer(n)
	}
}

// NewMachine creates a Machine over the given session manager, city directory and searcher.
func NewMachine(sessions *session.Manager, dir *directory.Store, searcher Searcher, opts ...Option) *Machine {
	m := &Machine{
		sessions:   sessions,
		directory:  dir,
		searcher:   searcher,
		categories: domain.MustCategorySet(domain.DefaultCategories),
		sanitizer:  transport.NewSanitizer(0),
		logger:     logging.NewNop(),
		now:        time.Now,
		promptID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Categories returns the category set offered to users.
func (m *Machine) Categories() *domain.CategorySet {
	return m.categories
}

// HandleEvent sanitizes and decodes a raw event, then applies it.
// On a session failure the replies hold an apology and err is non-nil, so the
// transport can both answer the user and report the problem.
func (m *Machine) HandleEvent(ctx context.Context, ev domain.Event) ([]domain.Reply, error) {
	text, payload, err := m.sanitizer.CleanEvent(ev.Text, ev.Payload)
	if err != nil {
		m.logger.Warn("rejected inbound event", "user_id", ev.User.ID, "event_id", ev.ID, "err", err)
		if ev.IsTap() {
			return nil, nil
		}
		return []domain.Reply{{Text: msgFallback, Keyboard: mainMenu()}}, nil
	}
	ev.Text, ev.Payload = text, payload

	replies, err := m.Handle(ctx, ev.User, transport.Decode(ev))
	if err != nil {
		m.logger.Error("failed to handle event", "user_id", ev.User.ID, "event_id", ev.ID, "err", err)
		return []domain.Reply{Apology()}, err
	}
	return replies, nil
}

// Handle applies one decoded command to the user's session and returns the replies to send.
// A dropped stale command yields no replies and no error.
// Errors are limited to session store failures.
func (m *Machine) Handle(ctx context.Context, user domain.User, cmd domain.Command) ([]domain.Reply, error) {
	if user.ID == "" {
		return nil, domain.ErrEmptyUser
	}

	var (
		replies  []domain.Reply
		from, to domain.ConversationState
		query    *domain.CatalogQueryEvent
	)
	err := m.sessions.Update(ctx, user.ID, func(s *domain.Session) error {
		from = s.State
		t := turn{m: m, ctx: ctx, user: user, s: s}
		if !t.apply(cmd) {
			return errStale
		}
		replies, query, to = t.replies, t.query, s.State
		return nil
	})
	if errors.Is(err, errStale) {
		m.logger.Debug("dropped stale command",
			"user_id", user.ID,
			"command", commandName(cmd),
			"state", from,
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if query != nil && m.hooks.OnCatalogQuery != nil {
		m.hooks.OnCatalogQuery(ctx, query)
	}
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: m.now(), Type: domain.EventTransition, UserID: user.ID},
			From:      from,
			To:        to,
			Command:   commandName(cmd),
			Replies:   len(replies),
		})
	}
	return replies, nil
}

// turn holds the work of applying one command to one session.
type turn struct {
	m    *Machine
	ctx  context.Context
	user domain.User
	s    *domain.Session

	replies []domain.Reply
	query   *domain.CatalogQueryEvent
}

func (t *turn) reply(r domain.Reply) {
	t.replies = append(t.replies, r)
}

// apply reports false when the command is stale and must leave the session untouched.
func (t *turn) apply(cmd domain.Command) bool {
	switch c := cmd.(type) {
	case domain.Start:
		t.reply(domain.Reply{Text: startText(firstName(t.user)), Keyboard: mainMenu()})
	case domain.Greeting:
		t.reply(domain.Reply{Text: greetingText(firstName(t.user)), Keyboard: mainMenu()})
	case domain.Help:
		t.reply(domain.Reply{Text: msgHelp, Keyboard: mainMenu()})
	case domain.Discover:
		t.s.Reset()
		t.s.State = domain.StateAwaitingCity
		t.reply(domain.Reply{Text: askCityText(firstName(t.user)), Keyboard: removeKeyboard()})
	case domain.Text:
		if t.s.State != domain.StateAwaitingCity {
			t.reply(domain.Reply{Text: msgFallback, Keyboard: mainMenu()})
			return true
		}
		t.resolveCity(c.Body)
	case domain.PickCity:
		return t.pickCity(c)
	case domain.PickCategory:
		return t.pickCategory(c)
	default:
		return false
	}
	return true
}

func (t *turn) resolveCity(input string) {
	matches := t.m.directory.Resolve(input)
	switch len(matches) {
	case 0:
		t.s.Reset()
		t.reply(domain.Reply{Text: msgCityNotFound, Keyboard: mainMenu()})
	case 1:
		t.chooseCity(matches[0], cityResolvedText(matches[0].Name), false)
	default:
		t.s.State = domain.StateSelectingCity
		t.s.Offered = matches
		t.s.PromptID = t.m.promptID()
		t.reply(domain.Reply{Text: msgWhichCity, Keyboard: cityKeyboard(matches), PromptID: t.s.PromptID})
	}
}

func (t *turn) chooseCity(city domain.City, text string, dismiss bool) {
	t.s.State = domain.StateAwaitingCategory
	t.s.CityID = city.ID
	t.s.CityName = city.Name
	t.s.Offered = nil
	t.s.PromptID = t.m.promptID()
	t.reply(domain.Reply{
		Text:     text,
		Keyboard: categoryKeyboard(t.m.categories),
		PromptID: t.s.PromptID,
		Dismiss:  dismiss,
	})
}

func (t *turn) pickCity(c domain.PickCity) bool {
	if t.s.State != domain.StateSelectingCity || !t.promptMatches(c.PromptID) {
		return false
	}
	city, ok := t.s.OfferedCity(c.Name)
	if !ok {
		return false
	}
	t.chooseCity(city, cityChosenText(city.Name), true)
	return true
}

func (t *turn) pickCategory(c domain.PickCategory) bool {
	if t.s.State != domain.StateAwaitingCategory || !t.promptMatches(c.PromptID) {
		return false
	}
	category, ok := t.m.categories.Lookup(c.Code)
	if !ok {
		return false
	}

	start := t.m.now()
	venues := t.m.searcher.Search(t.ctx, t.s.CityID, category.Code)
	t.query = &domain.CatalogQueryEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventCatalogQuery, UserID: t.user.ID},
		CityID:    t.s.CityID,
		Category:  category.Code,
		Results:   len(venues),
		Duration:  t.m.now().Sub(start),
	}

	body := msgNothingFound
	if len(venues) > 0 {
		body = render.Venues(venues)
	}
	t.reply(domain.Reply{
		Text:     searchingText(t.s.CityName, category.Label) + "\n\n" + body,
		Keyboard: mainMenu(),
		Dismiss:  true,
	})
	t.s.Reset()
	return true
}

// promptMatches accepts taps without a prompt id for transports that cannot echo it.
func (t *turn) promptMatches(id string) bool {
	return id == "" || id == t.s.PromptID
}

func commandName(cmd domain.Command) string {
	switch cmd.(type) {
	case domain.Start:
		return "start"
	case domain.Help:
		return "help"
	case domain.Greeting:
		return "greeting"
	case domain.Discover:
		return "discover"
	case domain.Text:
		return "text"
	case domain.PickCity:
		return "pick_city"
	case domain.PickCategory:
		return "pick_category"
	case domain.UnknownTap:
		return "unknown_tap"
	default:
		return "unknown"
	}
}
