package venuebot_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/venuebot"
	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves two cities and one venue for every search.
func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/places/cities", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 1, "name": "Москва"}, {"id": 2, "name": "Новосибирск"}]`)
	})
	mux.HandleFunc("/api/organizations/query", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"name": "Кафе Пушкин", "address": "Тверской бульвар, 26А", "rating": 4.7}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newBot(t *testing.T, cfg *venuebot.Config) *venuebot.Bot {
	t.Helper()
	bot, err := venuebot.New(cfg, venuebot.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { bot.Close() })
	return bot
}

func send(t *testing.T, bot *venuebot.Bot, ev domain.Event) []domain.Reply {
	t.Helper()
	ev.User = domain.User{ID: "42", FirstName: "Анна"}
	replies, err := bot.HandleEvent(context.Background(), ev)
	require.NoError(t, err)
	return replies
}

func TestBot_DiscoveryOverCatalog(t *testing.T) {
	cfg := venuebot.DefaultConfig()
	cfg.Catalog.BaseURL = fakeCatalog(t).URL + "/api/"
	bot := newBot(t, cfg)

	assert.Equal(t, 2, bot.Start(context.Background()))

	replies := send(t, bot, domain.Event{Text: transport.MenuDiscover})
	require.Len(t, replies, 1)

	replies = send(t, bot, domain.Event{Text: "москва"})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Москва")
	require.NotEmpty(t, replies[0].PromptID)

	replies = send(t, bot, domain.Event{
		Payload:  transport.CategoryPayload(domain.CategoryRestaurants),
		PromptID: replies[0].PromptID,
	})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Кафе Пушкин")
	assert.Contains(t, replies[0].Text, "★★★★★")
	assert.True(t, replies[0].Dismiss)

	sess, err := bot.Sessions.Load(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, sess.State)
}

func TestBot_StaticDirectoryAndRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := venuebot.DefaultConfig()
	cfg.Directory.Source = "static"
	cfg.Directory.Cities = []domain.CityRecord{{ID: "spb", Name: "Санкт-Петербург"}}
	cfg.Sessions.Backend = "redis"
	cfg.Sessions.RedisURL = "redis://" + mr.Addr() + "/0"
	bot := newBot(t, cfg)

	assert.Equal(t, 1, bot.Start(context.Background()))

	send(t, bot, domain.Event{Text: transport.MenuDiscover})
	replies := send(t, bot, domain.Event{Text: "петербург"})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Санкт-Петербург")

	users, err := bot.Sessions.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, users)

	keys := mr.Keys()
	assert.Contains(t, keys, cfg.Sessions.RedisPrefix+"42")
	assert.Positive(t, mr.TTL(cfg.Sessions.RedisPrefix+"42"))
}

func TestBot_FailedInitialLoadKeepsRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cfg := venuebot.DefaultConfig()
	cfg.Catalog.BaseURL = srv.URL
	bot := newBot(t, cfg)

	assert.Zero(t, bot.Start(context.Background()))

	send(t, bot, domain.Event{Text: transport.MenuDiscover})
	replies := send(t, bot, domain.Event{Text: "Москва"})
	require.Len(t, replies, 1)
	assert.Empty(t, replies[0].PromptID, "no city can be found in an empty directory")
}

func TestBot_HTTPHandler(t *testing.T) {
	cfg := venuebot.DefaultConfig()
	cfg.Catalog.BaseURL = fakeCatalog(t).URL + "/api/"
	cfg.Bot.Token = "secret"
	bot := newBot(t, cfg)
	bot.Start(context.Background())

	h := bot.HTTPHandler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/cities?q="+url.QueryEscape("ново"), nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/cities?q="+url.QueryEscape("ново"), nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Новосибирск")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "venuebot_directory_cities")
}

func TestBot_Chat(t *testing.T) {
	cfg := venuebot.DefaultConfig()
	cfg.Directory.Source = "static"
	cfg.Directory.Cities = []domain.CityRecord{{ID: "1", Name: "Москва"}}
	bot := newBot(t, cfg)
	bot.Start(context.Background())

	var out strings.Builder
	in := strings.NewReader(transport.MenuDiscover + "\nМосква\n/quit\n")
	require.NoError(t, bot.Chat(in, &out).Run(context.Background()))
	assert.Contains(t, out.String(), "Москва")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := venuebot.DefaultConfig()
	cfg.Sessions.Backend = "etcd"
	_, err := venuebot.New(cfg)
	assert.ErrorContains(t, err, "sessions.backend")
}

func TestBot_Categories(t *testing.T) {
	bot := newBot(t, nil)
	assert.Equal(t, domain.DefaultCategories, bot.Categories())
}

func TestBot_SealedSessions(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := venuebot.DefaultConfig()
	cfg.Directory.Source = "static"
	cfg.Directory.Cities = []domain.CityRecord{{ID: "1", Name: "Москва"}}
	cfg.Sessions.Backend = "redis"
	cfg.Sessions.RedisURL = "redis://" + mr.Addr() + "/0"
	cfg.Sessions.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	bot := newBot(t, cfg)
	bot.Start(context.Background())

	send(t, bot, domain.Event{Text: transport.MenuDiscover})
	send(t, bot, domain.Event{Text: "Москва"})

	raw, err := mr.Get(cfg.Sessions.RedisPrefix + "42")
	require.NoError(t, err)
	assert.NotContains(t, raw, "Москва")
	assert.Contains(t, raw, `"sealed"`)

	sess, err := bot.Sessions.Load(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Москва", sess.CityName)
}
