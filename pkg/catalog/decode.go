package catalog

import (
	"fmt"
	"strings"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Defaults is the default-value policy for venue fields the catalog leaves out.
type Defaults struct {
	Name    string
	Address string
}

// DefaultVenueDefaults fills missing names and addresses with user-facing placeholders.
var DefaultVenueDefaults = Defaults{
	Name:    "Без названия",
	Address: "Адрес не указан",
}

// Apply fills empty fields of v.
func (d Defaults) Apply(v *domain.Venue) {
	if strings.TrimSpace(v.Name) == "" {
		v.Name = d.Name
	}
	if strings.TrimSpace(v.Address) == "" {
		v.Address = d.Address
	}
}

type rawVenue struct {
	Name    string  `mapstructure:"name"`
	Address string  `mapstructure:"address"`
	Rating  float64 `mapstructure:"rating"`
}

type rawCategory struct {
	Code  string `mapstructure:"code"`
	ID    string `mapstructure:"id"`
	Type  string `mapstructure:"type"`
	Name  string `mapstructure:"name"`
	Label string `mapstructure:"label"`
}

// decodeLoose converts a generic JSON value into out, accepting numbers given as
// strings and the like.
func decodeLoose(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func decodeCities(items []any) []domain.CityRecord {
	records := make([]domain.CityRecord, 0, len(items))
	for _, item := range items {
		var rec domain.CityRecord
		if err := decodeLoose(item, &rec); err != nil {
			continue
		}
		if rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// decodeVenues applies the default policy to every decodable item and reports how many
// items had to be skipped.
func decodeVenues(items []any, defaults Defaults) ([]domain.Venue, int) {
	venues := make([]domain.Venue, 0, len(items))
	skipped := 0
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			skipped++
			continue
		}
		var raw rawVenue
		if err := decodeLoose(item, &raw); err != nil {
			skipped++
			continue
		}
		v := domain.Venue{Name: raw.Name, Address: raw.Address, Rating: raw.Rating}
		defaults.Apply(&v)
		venues = append(venues, v)
	}
	return venues, skipped
}

// decodeCategories accepts plain strings or objects carrying a code and a label
// under any of the usual keys.
func decodeCategories(items []any) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, domain.Category{Code: s, Label: s})
			continue
		}
		var raw rawCategory
		if err := decodeLoose(item, &raw); err != nil {
			return nil, fmt.Errorf("%w: category %d: %v", domain.ErrDecode, i, err)
		}
		code := firstNonEmpty(raw.Code, raw.Type, raw.ID)
		if code == "" {
			continue
		}
		out = append(out, domain.Category{Code: code, Label: firstNonEmpty(raw.Label, raw.Name, code)})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
