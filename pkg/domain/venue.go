package domain

// Venue is a single organization returned by a catalog search.
// It only lives for the duration of one render.
type Venue struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating"`
}
