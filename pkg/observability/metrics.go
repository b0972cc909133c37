package observability

import (
	"context"
	"time"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog request outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeTransportErr  = "transport_error"
	OutcomeUpstreamErr   = "upstream_error"
	OutcomeDecodeErr     = "decode_error"
	OutcomeRejected      = "rejected"
)

// Metrics groups the bot's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions     *prometheus.CounterVec
	catalogRequests *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec
	directorySize   prometheus.Gauge
	mailboxes       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venuebot_transitions_total",
				Help: "Total number of conversation state transitions",
			},
			[]string{"from", "to"},
		),
		catalogRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venuebot_catalog_requests_total",
				Help: "Catalog requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		catalogDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "venuebot_catalog_request_duration_seconds",
				Help:    "Duration of catalog requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		directorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "venuebot_directory_cities",
			Help: "Number of keys in the current city directory",
		}),
		mailboxes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "venuebot_active_mailboxes",
			Help: "Number of users with an active event mailbox",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.transitions, m.catalogRequests, m.catalogDuration, m.directorySize, m.mailboxes)
	}
	return m
}

// ObserveCatalog records one catalog request.
func (m *Metrics) ObserveCatalog(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.catalogRequests.WithLabelValues(endpoint, outcome).Inc()
	m.catalogDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveTransition records a state transition.
func (m *Metrics) ObserveTransition(from, to domain.ConversationState) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// SetDirectorySize records the size of the installed directory.
func (m *Metrics) SetDirectorySize(n int) {
	if m == nil {
		return
	}
	m.directorySize.Set(float64(n))
}

// AddMailboxes adjusts the active mailbox gauge.
func (m *Metrics) AddMailboxes(delta int) {
	if m == nil {
		return
	}
	m.mailboxes.Add(float64(delta))
}

// Hooks returns lifecycle hooks that feed transitions into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.ObserveTransition(e.From, e.To)
		},
	}
}

// Chain merges several hook sets; every non-nil callback is invoked in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, s := range sets {
				if s.OnTransition != nil {
					s.OnTransition(ctx, e)
				}
			}
		},
		OnCatalogQuery: func(ctx context.Context, e *domain.CatalogQueryEvent) {
			for _, s := range sets {
				if s.OnCatalogQuery != nil {
					s.OnCatalogQuery(ctx, e)
				}
			}
		},
	}
}
