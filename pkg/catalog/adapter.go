package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/observability"
)

const (
	// DefaultCriteria orders results by relevance.
	DefaultCriteria = "RELEVANCE"
	// DefaultLimit caps the number of venues per search.
	DefaultLimit = 10
)

// OrganizationSearcher is the part of the Client the Adapter depends on.
type OrganizationSearcher interface {
	SearchOrganizations(ctx context.Context, q Query) ([]domain.Venue, error)
}

// Adapter translates a (city, category) pair into a catalog search.
// Search never fails; failures are logged and degrade to an empty result.
type Adapter struct {
	client     OrganizationSearcher
	categories *domain.CategorySet
	criteria   string
	limit      int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// AdapterOption configures the Adapter.
type AdapterOption func(*Adapter)

// WithCriteria overrides the sort criteria.
func WithCriteria(criteria string) AdapterOption {
	return func(a *Adapter) {
		if criteria != "" {
			a.criteria = criteria
		}
	}
}

// WithLimit overrides the result limit.
func WithLimit(limit int) AdapterOption {
	return func(a *Adapter) {
		if limit > 0 {
			a.limit = limit
		}
	}
}

// WithAdapterLogger configures the structured logger.
func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithAdapterMetrics records rejected searches.
func WithAdapterMetrics(m *observability.Metrics) AdapterOption {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// NewAdapter creates an Adapter. Category codes outside the set are rejected.
func NewAdapter(client OrganizationSearcher, categories *domain.CategorySet, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		client:     client,
		categories: categories,
		criteria:   DefaultCriteria,
		limit:      DefaultLimit,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search returns the venues of a category in a city.
// cityID must come from the directory, never from user text.
func (a *Adapter) Search(ctx context.Context, cityID domain.CityID, code string) []domain.Venue {
	if cityID == "" {
		a.reject("empty city id", cityID, code)
		return nil
	}
	if _, ok := a.categories.Lookup(code); !ok {
		a.reject("unknown category", cityID, code)
		return nil
	}

	start := time.Now()
	venues, err := a.client.SearchOrganizations(ctx, Query{
		CityID:   cityID,
		Type:     code,
		Criteria: a.criteria,
		To:       a.limit,
	})
	if err != nil {
		a.logger.Error("catalog search failed",
			"err", err,
			"class", classify(err),
			"city_id", cityID,
			"category", code,
			"duration", time.Since(start),
		)
		return nil
	}
	if len(venues) > a.limit {
		venues = venues[:a.limit]
	}
	a.logger.Debug("catalog search",
		"city_id", cityID,
		"category", code,
		"results", len(venues),
		"duration", time.Since(start),
	)
	return venues
}

func (a *Adapter) reject(reason string, cityID domain.CityID, code string) {
	a.logger.Warn("catalog search rejected", "reason", reason, "city_id", cityID, "category", code)
	a.metrics.ObserveCatalog(EndpointOrganizations, observability.OutcomeRejected, 0)
}

// classify names the failure class of a catalog error for logs.
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	default:
		return "unknown"
	}
}
