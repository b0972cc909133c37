// Package console runs the dialogue in a terminal.
//
// Replies are printed as plain text and keyboards as numbered buttons. Typing the
// number of a button taps it; anything else is sent as a message.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/ports"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// QuitCommands end the chat.
var QuitCommands = []string{"/quit", "/exit"}

// Chat is a line based conversation with one local user.
type Chat struct {
	handler ports.EventHandler
	in      io.Reader
	out     *termenv.Output
	user    domain.User
	logger  *slog.Logger

	interactive bool

	// buttons are the taps currently offered, in the numbering shown to the user.
	buttons  []domain.Button
	promptID string
	menu     []domain.Button
}

// Option configures a Chat.
type Option func(*Chat)

// WithUser sets who the chat speaks for.
func WithUser(u domain.User) Option {
	return func(c *Chat) { c.user = u }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chat) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInteractive forces the prompt on or off.
func WithInteractive(on bool) Option {
	return func(c *Chat) { c.interactive = on }
}

// New creates a Chat reading from r and writing to w.
// Nil streams default to stdin and stdout.
func New(handler ports.EventHandler, r io.Reader, w io.Writer, opts ...Option) *Chat {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	c := &Chat{
		handler:     handler,
		in:          r,
		out:         termenv.NewOutput(w),
		user:        domain.User{ID: "console", FirstName: os.Getenv("USER")},
		logger:      logging.NewNop(),
		interactive: IsTerminal(r),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run starts the dialogue with /start and then relays lines until EOF, a quit command or ctx is done.
func (c *Chat) Run(ctx context.Context) error {
	if err := c.send(ctx, domain.Event{Text: "/start"}); err != nil {
		return err
	}

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errs
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isQuit(line) {
				return nil
			}
			if err := c.send(ctx, c.eventFor(line)); err != nil {
				return err
			}
		}
	}
}

func isQuit(line string) bool {
	for _, q := range QuitCommands {
		if strings.EqualFold(line, q) {
			return true
		}
	}
	return false
}

func (c *Chat) prompt() {
	if c.interactive {
		fmt.Fprint(c.out, "> ")
	}
}

// eventFor turns a typed line into a tap when it is the number of an offered button.
func (c *Chat) eventFor(line string) domain.Event {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(c.buttons) {
		return domain.Event{Text: line}
	}
	b := c.buttons[n-1]
	if b.Payload == "" {
		return domain.Event{Text: b.Label}
	}
	return domain.Event{Payload: b.Payload, PromptID: c.promptID}
}

func (c *Chat) send(ctx context.Context, ev domain.Event) error {
	ev.ID = uuid.NewString()
	ev.User = c.user
	replies, err := c.handler.HandleEvent(ctx, ev)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("event failed", "event_id", ev.ID, "err", err)
	}
	for _, r := range replies {
		c.show(r)
	}
	return nil
}

func (c *Chat) show(r domain.Reply) {
	fmt.Fprintln(c.out, strings.TrimSpace(r.Text))

	switch r.Keyboard.Kind {
	case domain.KeyboardInline:
		c.buttons = r.Keyboard.Buttons()
		c.promptID = r.PromptID
	case domain.KeyboardMenu:
		c.menu = r.Keyboard.Buttons()
		c.buttons = c.menu
		c.promptID = ""
	case domain.KeyboardRemove:
		c.menu = nil
		c.buttons = nil
		c.promptID = ""
	default:
		if r.Dismiss {
			c.buttons = c.menu
			c.promptID = ""
		}
	}

	if len(c.buttons) == 0 || r.Keyboard.Kind == domain.KeyboardNone {
		return
	}
	for i, b := range c.buttons {
		fmt.Fprintf(c.out, "  %s %s\n", c.out.String(fmt.Sprintf("[%d]", i+1)).Bold(), b.Label)
	}
	fmt.Fprintln(c.out)
}
