package directory

import (
	"strings"

	"github.com/aretw0/venuebot/pkg/domain"
)

type entry struct {
	key  string
	city domain.City
}

// Directory maps lower-cased city names to cities.
// Keys keep the position of their first insertion.
type Directory struct {
	entries []entry
	index   map[string]int
}

// Build creates a Directory from raw records. The key is the record name lower-cased
// with no other normalization. Duplicate keys are resolved last-writer-wins.
func Build(records []domain.CityRecord) *Directory {
	d := &Directory{
		entries: make([]entry, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		key := strings.ToLower(r.Name)
		city := domain.City{ID: r.ID, Name: r.Name}
		if i, ok := d.index[key]; ok {
			d.entries[i].city = city
			continue
		}
		d.index[key] = len(d.entries)
		d.entries = append(d.entries, entry{key: key, city: city})
	}
	return d
}

// Len returns the number of keys.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Lookup returns the city stored under an exact key.
func (d *Directory) Lookup(key string) (domain.City, bool) {
	if d == nil {
		return domain.City{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return domain.City{}, false
	}
	return d.entries[i].city, true
}

// Keys returns the keys in insertion order.
func (d *Directory) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Cities returns every city in key order.
func (d *Directory) Cities() []domain.City {
	if d == nil {
		return nil
	}
	out := make([]domain.City, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.city
	}
	return out
}
