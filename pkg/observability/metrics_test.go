package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveCatalog("organizations", observability.OutcomeEmpty, 10*time.Millisecond)
	m.ObserveCatalog("organizations", observability.OutcomeTransportErr, 10*time.Millisecond)
	m.SetDirectorySize(3)
	m.AddMailboxes(1)

	n, err := testutil.GatherAndCount(reg, "venuebot_catalog_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "empty and failed requests are separate series")

	n, err = testutil.GatherAndCount(reg, "venuebot_directory_cities")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.ObserveCatalog("cities", observability.OutcomeOK, time.Second)
		m.ObserveTransition(domain.StateIdle, domain.StateAwaitingCity)
		m.SetDirectorySize(1)
		m.AddMailboxes(-1)
	})
}

func TestChain_InvokesAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	var seen int
	custom := domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) { seen++ },
	}
	hooks := observability.Chain(m.Hooks(), custom)

	hooks.OnTransition(context.Background(), &domain.TransitionEvent{
		From: domain.StateIdle,
		To:   domain.StateAwaitingCity,
	})
	hooks.OnCatalogQuery(context.Background(), &domain.CatalogQueryEvent{})

	assert.Equal(t, 1, seen)
	n, err := testutil.GatherAndCount(reg, "venuebot_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
