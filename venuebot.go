package venuebot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/venuebot/internal/config"
	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/adapters/console"
	httpAdapter "github.com/aretw0/venuebot/pkg/adapters/http"
	"github.com/aretw0/venuebot/pkg/adapters/memory"
	"github.com/aretw0/venuebot/pkg/adapters/redis"
	"github.com/aretw0/venuebot/pkg/catalog"
	"github.com/aretw0/venuebot/pkg/conversation"
	"github.com/aretw0/venuebot/pkg/directory"
	"github.com/aretw0/venuebot/pkg/dispatcher"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/observability"
	"github.com/aretw0/venuebot/pkg/persistence/middleware"
	"github.com/aretw0/venuebot/pkg/ports"
	"github.com/aretw0/venuebot/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
)

// Config is the configuration a Bot is built from.
type Config = config.Config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads the configuration from defaults, an optional YAML file and the environment.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Bot wires the dialogue core to its stores, catalog and transports.
type Bot struct {
	Config     *Config
	Logger     *slog.Logger
	Registry   *prometheus.Registry
	Metrics    *observability.Metrics
	Directory  *directory.Store
	Refresher  *directory.Refresher
	Catalog    *catalog.Client
	Sessions   *session.Manager
	Machine    *conversation.Machine
	Dispatcher *dispatcher.Dispatcher

	store    ports.SessionStore
	source   directory.Source
	searcher conversation.Searcher
	closers  []func() error
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.Logger = logger
	}
}

// WithSessionStore injects a session store, bypassing the configured backend.
func WithSessionStore(store ports.SessionStore) Option {
	return func(b *Bot) {
		b.store = store
	}
}

// WithCitySource injects the source of the city directory, bypassing the catalog.
func WithCitySource(source directory.Source) Option {
	return func(b *Bot) {
		b.source = source
	}
}

// WithSearcher injects the venue searcher, bypassing the catalog.
func WithSearcher(s conversation.Searcher) Option {
	return func(b *Bot) {
		b.searcher = s
	}
}

// New builds a Bot from cfg. A nil cfg means DefaultConfig.
// The directory starts empty until Start or a refresh loads it.
func New(cfg *Config, opts ...Option) (*Bot, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Bot{Config: cfg}
	for _, opt := range opts {
		opt(b)
	}

	if b.Logger == nil {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		b.Logger = logging.New(level, logging.WithJSON(cfg.Log.JSON))
	}

	b.Registry = prometheus.NewRegistry()
	b.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	b.Metrics = observability.NewMetrics(b.Registry)

	if err := b.initCatalog(); err != nil {
		return nil, err
	}
	if err := b.initSessions(); err != nil {
		return nil, err
	}

	b.Directory = directory.NewStore(nil)
	b.Refresher = directory.NewRefresher(b.source, b.Directory,
		directory.WithLogger(b.Logger.With("component", "directory")),
		directory.WithMetrics(b.Metrics),
	)

	b.Machine = conversation.NewMachine(b.Sessions, b.Directory, b.searcher,
		conversation.WithCategories(cfg.CategorySet()),
		conversation.WithMaxInputSize(cfg.MaxInputSize),
		conversation.WithLogger(b.Logger.With("component", "conversation")),
		conversation.WithHooks(observability.Chain(
			b.Metrics.Hooks(),
			observability.LoggingHooks(b.Logger),
		)),
	)
	b.Dispatcher = dispatcher.New(b.Machine,
		dispatcher.WithLogger(b.Logger),
		dispatcher.WithMetrics(b.Metrics),
	)
	return b, nil
}

func (b *Bot) initCatalog() error {
	cfg := b.Config
	if b.source == nil && cfg.Directory.Source == config.SourceStatic {
		b.source = directory.StaticSource(cfg.Directory.Cities)
	}
	if b.source != nil && b.searcher != nil {
		return nil
	}

	client, err := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithLogger(b.Logger.With("component", "catalog")),
		catalog.WithMetrics(b.Metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}
	b.Catalog = client

	if b.source == nil {
		b.source = client
	}
	if b.searcher == nil {
		b.searcher = catalog.NewAdapter(client, cfg.CategorySet(),
			catalog.WithCriteria(cfg.Catalog.Criteria),
			catalog.WithLimit(cfg.Catalog.Limit),
			catalog.WithAdapterLogger(b.Logger.With("component", "catalog")),
			catalog.WithAdapterMetrics(b.Metrics),
		)
	}
	return nil
}

func (b *Bot) initSessions() error {
	cfg := b.Config.Sessions
	var managerOpts []session.Option

	if b.store == nil {
		switch strings.ToLower(cfg.Backend) {
		case config.BackendRedis:
			opts, err := backend.ParseURL(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("invalid sessions.redis_url: %w", err)
			}
			client := backend.NewClient(opts)
			store := redis.NewFromClient(client,
				redis.WithTTL(cfg.TTL),
				redis.WithPrefix(cfg.RedisPrefix),
			)
			b.store = store
			b.closers = append(b.closers, store.Close)
			managerOpts = append(managerOpts,
				session.WithLocker(redis.NewLocker(client, cfg.RedisPrefix)),
				session.WithLockTTL(cfg.LockTTL),
			)
		default:
			b.store = memory.NewStore()
		}
	}

	if cfg.EncryptionKey != "" {
		keys, err := middleware.ParseKeys(cfg.EncryptionKey, cfg.FallbackKeys...)
		if err != nil {
			return fmt.Errorf("invalid session encryption key: %w", err)
		}
		seal, err := middleware.NewEncryptionMiddleware(keys)
		if err != nil {
			return err
		}
		b.store = middleware.Chain(b.store, seal)
	}

	managerOpts = append(managerOpts, session.WithLogger(b.Logger.With("component", "session")))
	b.Sessions = session.NewManager(b.store, managerOpts...)
	return nil
}

// Start performs the initial directory load.
// A failed load is logged and the bot keeps running with an empty directory.
func (b *Bot) Start(ctx context.Context) int {
	n, err := b.Refresher.Refresh(ctx)
	if err != nil {
		b.Logger.Error("initial directory load failed, every city lookup will fail until the next refresh", "err", err)
	}
	return n
}

// RunRefresher refreshes the directory at the configured interval until ctx is done.
func (b *Bot) RunRefresher(ctx context.Context) error {
	return b.Refresher.Run(ctx, b.Config.Directory.RefreshInterval)
}

// HandleEvent routes an event through the per-user dispatcher.
func (b *Bot) HandleEvent(ctx context.Context, ev domain.Event) ([]domain.Reply, error) {
	return b.Dispatcher.Dispatch(ctx, ev)
}

// HTTPHandler returns the HTTP API of the bot.
func (b *Bot) HTTPHandler() http.Handler {
	return httpAdapter.NewHandler(b.Dispatcher,
		httpAdapter.WithDirectory(b.Directory),
		httpAdapter.WithRefresher(b.Refresher),
		httpAdapter.WithGatherer(b.Registry),
		httpAdapter.WithToken(b.Config.Bot.Token),
		httpAdapter.WithLogger(b.Logger.With("component", "http")),
	)
}

// Chat returns a console conversation over r and w.
func (b *Bot) Chat(r io.Reader, w io.Writer, opts ...console.Option) *console.Chat {
	opts = append([]console.Option{console.WithLogger(b.Logger)}, opts...)
	return console.New(b.Dispatcher, r, w, opts...)
}

// Categories returns the categories offered to users.
func (b *Bot) Categories() []domain.Category {
	return b.Machine.Categories().All()
}

// Close drains pending events and releases the session backend.
func (b *Bot) Close() error {
	b.Dispatcher.Close()
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
