package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/observability"
	"github.com/aretw0/venuebot/pkg/ports"
)

// ErrClosed is returned for events submitted after Close.
var ErrClosed = errors.New("dispatcher is closed")

// Result is the outcome of one event.
type Result struct {
	Replies []domain.Reply
	Err     error
}

type job struct {
	ctx context.Context
	ev  domain.Event
	out chan Result
}

type mailbox struct {
	queue []job
}

// Dispatcher fans events out to per-user mailboxes.
type Dispatcher struct {
	handler ports.EventHandler
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	boxes  map[string]*mailbox
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics reports the number of live mailboxes.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a Dispatcher delivering events to handler.
func New(handler ports.EventHandler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handler: handler,
		logger:  logging.NewNop(),
		boxes:   make(map[string]*mailbox),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit enqueues an event and returns a channel that receives exactly one Result.
// If ctx is done before the event reaches the handler, the Result carries ctx.Err().
func (d *Dispatcher) Submit(ctx context.Context, ev domain.Event) <-chan Result {
	out := make(chan Result, 1)
	if ev.User.ID == "" {
		out <- Result{Err: domain.ErrEmptyUser}
		return out
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		out <- Result{Err: ErrClosed}
		return out
	}

	box, ok := d.boxes[ev.User.ID]
	if !ok {
		box = &mailbox{}
		d.boxes[ev.User.ID] = box
		d.wg.Add(1)
		d.metrics.AddMailboxes(1)
		go d.drain(ev.User.ID, box)
	}
	box.queue = append(box.queue, job{ctx: ctx, ev: ev, out: out})
	return out
}

// Dispatch submits an event and waits for its result.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) ([]domain.Reply, error) {
	select {
	case res := <-d.Submit(ctx, ev):
		return res.Replies, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HandleEvent lets a Dispatcher stand in for the handler it wraps.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev domain.Event) ([]domain.Reply, error) {
	return d.Dispatch(ctx, ev)
}

func (d *Dispatcher) drain(userID string, box *mailbox) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(box.queue) == 0 {
			delete(d.boxes, userID)
			d.mu.Unlock()
			d.metrics.AddMailboxes(-1)
			return
		}
		j := box.queue[0]
		box.queue[0] = job{}
		box.queue = box.queue[1:]
		d.mu.Unlock()

		j.out <- d.run(j)
	}
}

func (d *Dispatcher) run(j job) (res Result) {
	if err := j.ctx.Err(); err != nil {
		return Result{Err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked", "user_id", j.ev.User.ID, "event_id", j.ev.ID, "panic", r)
			res = Result{Err: errors.New("event handler panicked")}
		}
	}()
	replies, err := d.handler.HandleEvent(j.ctx, j.ev)
	return Result{Replies: replies, Err: err}
}

// Active returns the number of users with pending events.
func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.boxes)
}

// Close stops accepting events and waits until every queued event has been handled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
