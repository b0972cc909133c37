package directory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/venuebot/pkg/directory"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls   atomic.Int32
	delay   time.Duration
	records []domain.CityRecord
	err     error
}

func (f *fakeSource) Cities(ctx context.Context) ([]domain.CityRecord, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.records, f.err
}

func TestRefresher_Refresh(t *testing.T) {
	src := &fakeSource{records: []domain.CityRecord{{ID: "1", Name: "Москва"}}}
	store := directory.NewStore(nil)
	r := directory.NewRefresher(src, store)

	n, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Load().Len())
}

func TestRefresher_FailureKeepsPrevious(t *testing.T) {
	store := directory.NewStore(directory.Build([]domain.CityRecord{{ID: "1", Name: "Москва"}}))
	src := &fakeSource{err: errors.New("connection refused")}
	r := directory.NewRefresher(src, store)

	_, err := r.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, store.Load().Len())
}

func TestRefresher_EmptyFetchEmptiesDirectory(t *testing.T) {
	store := directory.NewStore(directory.Build([]domain.CityRecord{{ID: "1", Name: "Москва"}}))
	r := directory.NewRefresher(&fakeSource{}, store)

	n, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, store.Resolve("москва"))
}

func TestRefresher_CoalescesConcurrentCalls(t *testing.T) {
	src := &fakeSource{
		delay:   50 * time.Millisecond,
		records: []domain.CityRecord{{ID: "1", Name: "Москва"}},
	}
	r := directory.NewRefresher(src, directory.NewStore(nil))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Refresh(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, int(src.calls.Load()), 5)
}

func TestRefresher_RunStopsOnCancel(t *testing.T) {
	src := &fakeSource{records: []domain.CityRecord{{ID: "1", Name: "Москва"}}}
	r := directory.NewRefresher(src, directory.NewStore(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStaticSource(t *testing.T) {
	src := directory.StaticSource{{ID: "1", Name: "Москва"}}
	records, err := src.Cities(context.Background())
	require.NoError(t, err)
	records[0].Name = "changed"
	assert.Equal(t, "Москва", src[0].Name)
}
