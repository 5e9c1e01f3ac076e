package availability

import (
	"context"
	"sort"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// RoomSet is a set of room identifiers.
type RoomSet map[properties.RoomID]struct{}

func NewRoomSet(ids ...properties.RoomID) RoomSet {
	set := make(RoomSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s RoomSet) Has(id properties.RoomID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted for deterministic queries.
func (s RoomSet) IDs() []properties.RoomID {
	out := make([]properties.RoomID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NightCounter is the read side the resolver needs.
type NightCounter interface {
	AvailableNightCounts(ctx context.Context, r daterange.DateRange) ([]RoomNights, error)
}

// ResolveAvailableRoomIDs returns the rooms explicitly available on every
// night of r. A night without a row counts as unavailable.
func ResolveAvailableRoomIDs(ctx context.Context, counter NightCounter, r daterange.DateRange) (RoomSet, error) {
	nights, err := daterange.NightsBetween(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, err
	}
	counts, err := counter.AvailableNightCounts(ctx, r)
	if err != nil {
		return nil, err
	}
	return QualifyingRooms(counts, nights), nil
}

// QualifyingRooms keeps the rooms whose count equals nights.
func QualifyingRooms(counts []RoomNights, nights int) RoomSet {
	set := make(RoomSet)
	for _, c := range counts {
		if c.AvailableNights == nights {
			set[c.RoomID] = struct{}{}
		}
	}
	return set
}
