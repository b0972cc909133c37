package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// chdir moves into an empty directory so a developer's .env cannot leak into tests.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://localhost:8000/api/", cfg.Catalog.BaseURL)
	assert.Equal(t, BackendMemory, cfg.Sessions.Backend)
	assert.Equal(t, domain.DefaultCategories, cfg.CategorySet().All())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdir(t)
	path := writeFile(t, dir, "venuebot.yaml", `
log:
  level: debug
  json: true
catalog:
  base_url: https://catalog.example.com/api/
  timeout: 3s
  limit: 5
directory:
  source: static
  refresh_interval: 0s
  cities:
    - id: 1
      name: Москва
    - id: spb
      name: Санкт-Петербург
sessions:
  backend: redis
  ttl: 10m
categories:
  - code: ZOO
    label: Зоопарки
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 5, cfg.Catalog.Limit)
	assert.Equal(t, "RELEVANCE", cfg.Catalog.Criteria, "unset keys keep their defaults")
	assert.Equal(t, []domain.CityRecord{{ID: "1", Name: "Москва"}, {ID: "spb", Name: "Санкт-Петербург"}}, cfg.Directory.Cities)
	assert.Equal(t, BackendRedis, cfg.Sessions.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Sessions.TTL)

	c, ok := cfg.CategorySet().Lookup("ZOO")
	require.True(t, ok)
	assert.Equal(t, "Зоопарки", c.Label)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdir(t)
	path := writeFile(t, dir, "venuebot.yaml", "http:\n  addr: \":9000\"\n")

	t.Setenv("VENUEBOT_HTTP_ADDR", ":9999")
	t.Setenv("VENUEBOT_BOT_TOKEN", "secret")
	t.Setenv("VENUEBOT_SESSIONS_TTL", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "secret", cfg.Bot.Token)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.TTL)
	assert.NoError(t, cfg.RequireToken())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	writeFile(t, dir, ".env", "VENUEBOT_CATALOG_LIMIT=3\n")
	t.Cleanup(func() { os.Unsetenv("VENUEBOT_CATALOG_LIMIT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Catalog.Limit)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	dir := chdir(t)
	path := writeFile(t, dir, "venuebot.yaml", "catalog:\n  base_ulr: http://x/\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad url", func(c *Config) { c.Catalog.BaseURL = "ftp://x" }, "catalog.base_url"},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, "catalog.timeout"},
		{"static without cities", func(c *Config) { c.Directory.Source = SourceStatic }, "directory.cities"},
		{"unknown source", func(c *Config) { c.Directory.Source = "ldap" }, "directory.source"},
		{"unknown backend", func(c *Config) { c.Sessions.Backend = "etcd" }, "sessions.backend"},
		{"redis without ttl", func(c *Config) { c.Sessions.Backend = BackendRedis; c.Sessions.TTL = 0 }, "sessions.ttl"},
		{"duplicate category", func(c *Config) {
			c.Categories = []domain.Category{{Code: "A"}, {Code: "A"}}
		}, "duplicate category"},
		{"input size", func(c *Config) { c.MaxInputSize = 0 }, "max_input_size"},
		{"short encryption key", func(c *Config) { c.Sessions.EncryptionKey = "c2hvcnQ=" }, "sessions encryption"},
		{"fallback without key", func(c *Config) { c.Sessions.FallbackKeys = []string{"x"} }, "sessions.fallback_keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestRequireToken(t *testing.T) {
	err := Default().RequireToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VENUEBOT_BOT_TOKEN")
}
