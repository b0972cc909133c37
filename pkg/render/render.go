// Package render formats catalog results for the user.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/venuebot/pkg/domain"
)

const (
	// MaxStars is the width of the rating line.
	MaxStars = 5

	filledStar = "★"
	emptyStar  = "☆"
)

// StarCount rounds a rating and clamps it to [0, MaxStars].
func StarCount(rating float64) int {
	if math.IsNaN(rating) {
		return 0
	}
	r := math.Round(rating)
	switch {
	case r < 0:
		return 0
	case r > MaxStars:
		return MaxStars
	}
	return int(r)
}

// Stars returns a fixed-width line of filled and empty star glyphs.
func Stars(rating float64) string {
	n := StarCount(rating)
	return strings.Repeat(filledStar, n) + strings.Repeat(emptyStar, MaxStars-n)
}

// Venue formats a single venue block.
func Venue(v domain.Venue) string {
	return fmt.Sprintf("🏢 %s\n📍 %s\n%s (%.1f)", v.Name, v.Address, Stars(v.Rating), v.Rating)
}

// Venues joins venue blocks with a blank line. Callers handle the empty case.
func Venues(venues []domain.Venue) string {
	blocks := make([]string, len(venues))
	for i, v := range venues {
		blocks[i] = Venue(v)
	}
	return strings.Join(blocks, "\n\n")
}
