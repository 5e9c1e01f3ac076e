package search

import "errors"

var (
	ErrNoGuests       = errors.New("search: at least one guest is required")
	ErrNegativeGuests = errors.New("search: guest counts must be non-negative")
	ErrNegativeRooms  = errors.New("search: room count must be non-negative")
	ErrTooManyGuests  = errors.New("search: guest or room count exceeds the limit")
)

// MaxPartyCount bounds each guest count and the room count so totals can
// never overflow.
const MaxPartyCount = 500

// GuestNeed is the party a search must accommodate.
type GuestNeed struct {
	Adults        int
	Children      int
	Infants       int
	InfantsUseBed bool
	Rooms         int
}

// TotalGuests counts infants only when they occupy a bed.
func (g GuestNeed) TotalGuests() int {
	total := g.Adults + g.Children
	if g.InfantsUseBed {
		total += g.Infants
	}
	return total
}

// BedsNeeded is the capacity threshold applied while aggregating.
func (g GuestNeed) BedsNeeded() int {
	return g.Adults + g.Children
}

// RoomsRequested defaults to one room.
func (g GuestNeed) RoomsRequested() int {
	if g.Rooms <= 0 {
		return 1
	}
	return g.Rooms
}

func (g GuestNeed) Validate() error {
	if g.Adults < 0 || g.Children < 0 || g.Infants < 0 {
		return ErrNegativeGuests
	}
	if g.Rooms < 0 {
		return ErrNegativeRooms
	}
	if g.Adults > MaxPartyCount || g.Children > MaxPartyCount || g.Infants > MaxPartyCount || g.Rooms > MaxPartyCount {
		return ErrTooManyGuests
	}
	if g.TotalGuests() == 0 {
		return ErrNoGuests
	}
	return nil
}
