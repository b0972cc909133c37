package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/venuebot/pkg/catalog"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type stubSearcher struct {
	venues []domain.Venue
	err    error
	got    []catalog.Query
}

func (s *stubSearcher) SearchOrganizations(ctx context.Context, q catalog.Query) ([]domain.Venue, error) {
	s.got = append(s.got, q)
	return s.venues, s.err
}

func defaultSet() *domain.CategorySet {
	return domain.MustCategorySet(domain.DefaultCategories)
}

func TestAdapter_Search(t *testing.T) {
	stub := &stubSearcher{venues: []domain.Venue{{Name: "Cafe X", Address: "1 Main St", Rating: 4.6}}}
	a := catalog.NewAdapter(stub, defaultSet())

	venues := a.Search(context.Background(), "5", domain.CategoryRestaurants)
	assert.Len(t, venues, 1)
	assert.Equal(t, []catalog.Query{{
		CityID:   "5",
		Type:     domain.CategoryRestaurants,
		Criteria: catalog.DefaultCriteria,
		To:       catalog.DefaultLimit,
	}}, stub.got)
}

func TestAdapter_FailuresDegradeToEmpty(t *testing.T) {
	for _, class := range []error{domain.ErrTransport, domain.ErrUpstream, domain.ErrDecode, fmt.Errorf("other")} {
		t.Run(class.Error(), func(t *testing.T) {
			stub := &stubSearcher{err: fmt.Errorf("%w: organizations", class)}
			a := catalog.NewAdapter(stub, defaultSet())

			assert.NotPanics(t, func() {
				assert.Empty(t, a.Search(context.Background(), "5", domain.CategoryParks))
			})
		})
	}
}

func TestAdapter_RejectsInvalidInput(t *testing.T) {
	stub := &stubSearcher{venues: []domain.Venue{{Name: "x"}}}
	a := catalog.NewAdapter(stub, defaultSet())

	assert.Empty(t, a.Search(context.Background(), "5", "cat_RESTAURANTS_AND_CAFES"))
	assert.Empty(t, a.Search(context.Background(), "", domain.CategoryParks))
	assert.Empty(t, stub.got, "rejected searches never reach the catalog")
}

func TestAdapter_Options(t *testing.T) {
	stub := &stubSearcher{venues: make([]domain.Venue, 5)}
	a := catalog.NewAdapter(stub, defaultSet(), catalog.WithLimit(3), catalog.WithCriteria("RATING"))

	venues := a.Search(context.Background(), "5", domain.CategoryCinema)
	assert.Len(t, venues, 3, "results beyond the limit are dropped")
	assert.Equal(t, "RATING", stub.got[0].Criteria)
	assert.Equal(t, 3, stub.got[0].To)
}
