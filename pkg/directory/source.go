package directory

import (
	"context"

	"github.com/aretw0/venuebot/pkg/domain"
)

// Source delivers the raw city list a Directory is built from.
type Source interface {
	Cities(ctx context.Context) ([]domain.CityRecord, error)
}

// StaticSource serves a fixed list of records, typically from configuration.
type StaticSource []domain.CityRecord

// Cities returns a copy of the static records.
func (s StaticSource) Cities(ctx context.Context) ([]domain.CityRecord, error) {
	out := make([]domain.CityRecord, len(s))
	copy(out, s)
	return out, nil
}
