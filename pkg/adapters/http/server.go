package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/directory"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds a single event request.
const maxBodyBytes = 64 << 10

// Refresher reloads the city directory on demand.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Server serves the bot API.
type Server struct {
	Handler   ports.EventHandler
	Directory *directory.Store
	Refresher Refresher
	Gatherer  prometheus.Gatherer
	Streams   *StreamManager

	token  string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithDirectory enables the city lookup endpoint.
func WithDirectory(store *directory.Store) Option {
	return func(s *Server) { s.Directory = store }
}

// WithRefresher enables the directory refresh endpoint.
func WithRefresher(r Refresher) Option {
	return func(s *Server) { s.Refresher = r }
}

// WithGatherer exposes metrics from the given gatherer on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithToken requires "Authorization: Bearer <token>" on every /v1 route.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time stamped on events without one.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a Server delivering events to handler.
func NewServer(handler ports.EventHandler, opts ...Option) *Server {
	s := &Server{
		Handler: handler,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler builds the HTTP handler for handler.
func NewHandler(handler ports.EventHandler, opts ...Option) http.Handler {
	return NewServer(handler, opts...).Routes()
}

// Routes returns the chi router of the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/events", s.PostEvent)
		r.Get("/events/stream", s.SubscribeReplies)
		r.Get("/cities", s.GetCities)
		r.Post("/directory/refresh", s.RefreshDirectory)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"}, s.logger)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// EventResponse is the body returned by POST /v1/events.
type EventResponse struct {
	EventID string         `json:"event_id"`
	Replies []domain.Reply `json:"replies"`
}

// CityResponse is one entry of GET /v1/cities.
type CityResponse struct {
	ID   domain.CityID `json:"id"`
	Name string        `json:"name"`
}

// PostEvent handles the POST /v1/events request.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&ev); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if ev.User.ID == "" {
		s.fail(w, http.StatusBadRequest, "user.id is required", domain.ErrEmptyUser)
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = s.now()
	}

	replies, err := s.Handler.HandleEvent(r.Context(), ev)
	if err != nil {
		if len(replies) == 0 {
			s.fail(w, http.StatusServiceUnavailable, "event could not be processed", err)
			return
		}
		s.logger.Error("event handled with error", "user_id", ev.User.ID, "event_id", ev.ID, "err", err)
	}
	if replies == nil {
		replies = []domain.Reply{}
	}

	for _, reply := range replies {
		if data, err := json.Marshal(reply); err == nil {
			s.Streams.Broadcast(ev.User.ID, string(data))
		}
	}
	writeJSON(w, http.StatusOK, EventResponse{EventID: ev.ID, Replies: replies}, s.logger)
}

// GetCities handles the GET /v1/cities?q= request.
// Without q it lists the whole directory.
func (s *Server) GetCities(w http.ResponseWriter, r *http.Request) {
	if s.Directory == nil {
		http.Error(w, "directory not configured", http.StatusNotFound)
		return
	}
	var cities []domain.City
	if q, ok := r.URL.Query()["q"]; ok && len(q) > 0 {
		cities = s.Directory.Resolve(q[0])
	} else {
		cities = s.Directory.Load().Cities()
	}

	out := make([]CityResponse, len(cities))
	for i, c := range cities {
		out[i] = CityResponse{ID: c.ID, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, out, s.logger)
}

// RefreshDirectory handles the POST /v1/directory/refresh request.
func (s *Server) RefreshDirectory(w http.ResponseWriter, r *http.Request) {
	if s.Refresher == nil {
		http.Error(w, "refresh not configured", http.StatusNotFound)
		return
	}
	n, err := s.Refresher.Refresh(r.Context())
	if err != nil {
		s.fail(w, http.StatusBadGateway, "directory refresh failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cities": n}, s.logger)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s.Directory != nil {
		resp["cities"] = s.Directory.Load().Len()
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// SubscribeReplies handles the GET /v1/events/stream?user_id= request (SSE).
func (s *Server) SubscribeReplies(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(userID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "user_id", userID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reply\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, msg, "status", status, "err", err)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, errorResponse{Error: msg}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
