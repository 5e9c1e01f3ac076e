package search

import (
	"time"

	"stayhub/internal/domain/properties"
)

// Result is one property offered for the requested stay.
type Result struct {
	Property      *properties.Property
	Amenities     []*properties.VocabularyEntry
	Facilities    []*properties.VocabularyEntry
	Safeties      []*properties.VocabularyEntry
	Media         []*properties.Media
	TotalCapacity int
	Rooms         []CandidateRoom
	Nights        int
	Dates         []time.Time
}

// BuildResults keeps the candidates that can sleep every counted guest.
// Candidates failing the check are dropped without error; order is kept.
func BuildResults(candidates []Candidate, need GuestNeed, nights int, days []time.Time) []Result {
	total := need.TotalGuests()
	out := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if c.TotalCapacity < total {
			continue
		}
		out = append(out, Result{
			Property:      c.Property,
			Amenities:     c.Amenities,
			Facilities:    c.Facilities,
			Safeties:      c.Safeties,
			Media:         c.Media,
			TotalCapacity: c.TotalCapacity,
			Rooms:         c.AvailableRooms,
			Nights:        nights,
			Dates:         days,
		})
	}
	return out
}
