package directory

import (
	"strings"

	"github.com/aretw0/venuebot/pkg/domain"
)

// Normalize trims and lower-cases user input the same way keys are built.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Resolve returns the cities whose key contains the normalized input, in key order,
// without repeating a display name.
//
// An empty input is contained in every key and therefore matches the whole directory.
func Resolve(d *Directory, raw string) []domain.City {
	if d == nil {
		return nil
	}
	needle := Normalize(raw)

	var matches []domain.City
	seen := make(map[string]struct{})
	for _, e := range d.entries {
		if !strings.Contains(e.key, needle) {
			continue
		}
		if _, dup := seen[e.city.Name]; dup {
			continue
		}
		seen[e.city.Name] = struct{}{}
		matches = append(matches, e.city)
	}
	return matches
}
