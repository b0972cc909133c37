package domain

import (
	"encoding/json"
	"strconv"
)

// CityID is the opaque identifier the catalog uses for a city.
// The catalog may hand out numbers or strings; both are kept verbatim.
type CityID string

// MarshalJSON emits numeric identifiers as JSON numbers so they round-trip to the
// catalog in the form it produced them.
func (id CityID) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *CityID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CityID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = CityID(n.String())
	return nil
}

func (id CityID) isNumeric() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseFloat(string(id), 64)
	return err == nil && json.Valid([]byte(id))
}

// String returns the identifier as text.
func (id CityID) String() string {
	return string(id)
}

// CityRecord is a raw city entry as delivered by a directory source.
type CityRecord struct {
	ID   CityID `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

// City is an immutable directory entry.
type City struct {
	ID   CityID `json:"id"`
	Name string `json:"name"`
}
