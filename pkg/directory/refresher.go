package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/observability"
	"golang.org/x/sync/singleflight"
)

// Refresher rebuilds the Directory from a Source and swaps it into a Store.
type Refresher struct {
	source  Source
	store   *Store
	group   singleflight.Group
	logger  *slog.Logger
	metrics *observability.Metrics
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// WithMetrics reports the installed directory size.
func WithMetrics(m *observability.Metrics) RefresherOption {
	return func(r *Refresher) {
		r.metrics = m
	}
}

// NewRefresher creates a Refresher feeding the given store.
func NewRefresher(source Source, store *Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		source: source,
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh fetches the city list and installs a new Directory.
// Concurrent calls share one fetch. On failure the current Directory stays in place.
// A successful but empty fetch installs an empty Directory.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	v, err, shared := r.group.Do("refresh", func() (any, error) {
		records, err := r.source.Cities(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch cities: %w", err)
		}
		dir := Build(records)
		r.store.Swap(dir)
		r.metrics.SetDirectorySize(dir.Len())
		return dir.Len(), nil
	})
	if err != nil {
		r.logger.Warn("directory refresh failed, keeping previous directory",
			"err", err,
			"size", r.store.Load().Len(),
		)
		return 0, err
	}
	n := v.(int)
	if n == 0 {
		r.logger.Warn("directory is empty, every city lookup will fail until the next refresh")
	}
	r.logger.Info("directory refreshed", "size", n, "shared", shared)
	return n, nil
}

// Run refreshes every interval until the context is cancelled.
// It does not perform an initial refresh.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Errors are logged by Refresh; the loop keeps going.
			_, _ = r.Refresh(ctx)
		}
	}
}
