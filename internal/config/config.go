// Package config loads the bot configuration.
//
// Values come from three layers, later ones winning: built-in defaults, an optional
// YAML file, then VENUEBOT_* environment variables (a .env file in the working
// directory is loaded into the environment first).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aretw0/venuebot/pkg/catalog"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/persistence/middleware"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VENUEBOT"

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Directory sources.
const (
	SourceCatalog = "catalog"
	SourceStatic  = "static"
)

// Config is the full configuration of the bot.
type Config struct {
	Log       LogConfig       `yaml:"log" envconfig:"log"`
	Bot       BotConfig       `yaml:"bot" envconfig:"bot"`
	Catalog   CatalogConfig   `yaml:"catalog" envconfig:"catalog"`
	Directory DirectoryConfig `yaml:"directory" envconfig:"directory"`
	Sessions  SessionsConfig  `yaml:"sessions" envconfig:"sessions"`
	HTTP      HTTPConfig      `yaml:"http" envconfig:"http"`

	// MaxInputSize caps inbound texts and payloads in bytes.
	MaxInputSize int `yaml:"max_input_size" envconfig:"max_input_size"`

	// Categories replaces the default category set when not empty.
	Categories []domain.Category `yaml:"categories" ignored:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"level"`
	JSON  bool   `yaml:"json" envconfig:"json"`
}

type BotConfig struct {
	// Token authenticates hosts calling the HTTP API. Required by serve.
	Token string `yaml:"token" envconfig:"token"`
}

type CatalogConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"base_url"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"timeout"`
	Criteria string        `yaml:"criteria" envconfig:"criteria"`
	Limit    int           `yaml:"limit" envconfig:"limit"`
}

type DirectoryConfig struct {
	Source          string              `yaml:"source" envconfig:"source"`
	RefreshInterval time.Duration       `yaml:"refresh_interval" envconfig:"refresh_interval"`
	Cities          []domain.CityRecord `yaml:"cities" ignored:"true"`
}

type SessionsConfig struct {
	Backend     string        `yaml:"backend" envconfig:"backend"`
	TTL         time.Duration `yaml:"ttl" envconfig:"ttl"`
	LockTTL     time.Duration `yaml:"lock_ttl" envconfig:"lock_ttl"`
	RedisURL    string        `yaml:"redis_url" envconfig:"redis_url"`
	RedisPrefix string        `yaml:"redis_prefix" envconfig:"redis_prefix"`

	// EncryptionKey seals sessions at rest when set (base64, 32 bytes).
	EncryptionKey string `yaml:"encryption_key" envconfig:"encryption_key"`
	// FallbackKeys still open sessions sealed before a key rotation.
	FallbackKeys []string `yaml:"fallback_keys" envconfig:"fallback_keys"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" envconfig:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"shutdown_timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Catalog: CatalogConfig{
			BaseURL:  catalog.DefaultBaseURL,
			Timeout:  catalog.DefaultTimeout,
			Criteria: catalog.DefaultCriteria,
			Limit:    catalog.DefaultLimit,
		},
		Directory: DirectoryConfig{
			Source:          SourceCatalog,
			RefreshInterval: time.Hour,
		},
		Sessions: SessionsConfig{
			Backend:     BackendMemory,
			TTL:         30 * time.Minute,
			LockTTL:     30 * time.Second,
			RedisURL:    "redis://localhost:6379/0",
			RedisPrefix: "venuebot:session:",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		MaxInputSize: 4096,
	}
}

// Load builds the configuration from defaults, the YAML file at path (optional)
// and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decodeYAML(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Catalog.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("catalog.base_url must be an http(s) URL, got %q", c.Catalog.BaseURL))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog.timeout must be positive"))
	}
	if c.Catalog.Limit <= 0 {
		errs = append(errs, errors.New("catalog.limit must be positive"))
	}

	switch c.Directory.Source {
	case SourceCatalog:
	case SourceStatic:
		if len(c.Directory.Cities) == 0 {
			errs = append(errs, errors.New("directory.cities must be set when directory.source is static"))
		}
	default:
		errs = append(errs, fmt.Errorf("directory.source must be %q or %q, got %q", SourceCatalog, SourceStatic, c.Directory.Source))
	}
	if c.Directory.RefreshInterval < 0 {
		errs = append(errs, errors.New("directory.refresh_interval must not be negative"))
	}

	switch strings.ToLower(c.Sessions.Backend) {
	case BackendMemory:
	case BackendRedis:
		if c.Sessions.RedisURL == "" {
			errs = append(errs, errors.New("sessions.redis_url is required for the redis backend"))
		}
		if c.Sessions.TTL <= 0 {
			errs = append(errs, errors.New("sessions.ttl must be positive for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("sessions.backend must be %q or %q, got %q", BackendMemory, BackendRedis, c.Sessions.Backend))
	}

	if c.Sessions.EncryptionKey != "" {
		if _, err := middleware.ParseKeys(c.Sessions.EncryptionKey, c.Sessions.FallbackKeys...); err != nil {
			errs = append(errs, fmt.Errorf("sessions encryption: %w", err))
		}
	} else if len(c.Sessions.FallbackKeys) > 0 {
		errs = append(errs, errors.New("sessions.fallback_keys requires sessions.encryption_key"))
	}

	if len(c.Categories) > 0 {
		if _, err := domain.NewCategorySet(c.Categories); err != nil {
			errs = append(errs, fmt.Errorf("categories: %w", err))
		}
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, errors.New("max_input_size must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// CategorySet returns the configured categories, or the defaults.
func (c *Config) CategorySet() *domain.CategorySet {
	if len(c.Categories) == 0 {
		return domain.MustCategorySet(domain.DefaultCategories)
	}
	return domain.MustCategorySet(c.Categories)
}

// RequireToken reports an error when no bot token is configured.
func (c *Config) RequireToken() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is required: set bot.token or %s_BOT_TOKEN", EnvPrefix)
	}
	return nil
}
