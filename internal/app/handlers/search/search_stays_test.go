package search

import (
	"context"
	"errors"
	"testing"
	"time"

	domainsearch "stayhub/internal/domain/search"
	"stayhub/internal/domain/shared/daterange"
)

// The handler has no storage here, so every case must fail validation
// before a unit of work is opened.
func TestSearchStaysValidatesBeforeStorage(t *testing.T) {
	h := &SearchStaysHandler{Now: func() time.Time {
		return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	}}

	cases := []struct {
		name  string
		query SearchStaysQuery
		want  error
	}{
		{"missing dates", SearchStaysQuery{CheckOut: "2025-06-12", Adults: 1}, ErrDatesRequired},
		{"blank dates", SearchStaysQuery{CheckIn: " ", CheckOut: "2025-06-12", Adults: 1}, ErrDatesRequired},
		{"malformed", SearchStaysQuery{CheckIn: "06/11/2025", CheckOut: "2025-06-12", Adults: 1}, daterange.ErrInvalidDate},
		{"equal dates", SearchStaysQuery{CheckIn: "2025-06-12", CheckOut: "2025-06-12", Adults: 1}, daterange.ErrInvalidRange},
		{"reversed", SearchStaysQuery{CheckIn: "2025-06-13", CheckOut: "2025-06-12", Adults: 1}, daterange.ErrInvalidRange},
		{"past check-in", SearchStaysQuery{CheckIn: "2025-06-09", CheckOut: "2025-06-12", Adults: 1}, ErrCheckInPast},
		{"no guests", SearchStaysQuery{CheckIn: "2025-06-11", CheckOut: "2025-06-12"}, domainsearch.ErrNoGuests},
		{"negative children", SearchStaysQuery{CheckIn: "2025-06-11", CheckOut: "2025-06-12", Adults: 1, Children: -1}, domainsearch.ErrNegativeGuests},
		{"negative rooms", SearchStaysQuery{CheckIn: "2025-06-11", CheckOut: "2025-06-12", Adults: 1, Rooms: -1}, domainsearch.ErrNegativeRooms},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tc.query)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSearchStaysAcceptsToday(t *testing.T) {
	h := &SearchStaysHandler{Now: func() time.Time {
		return time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	}}
	stay, err := h.validate(SearchStaysQuery{CheckIn: "2025-06-10", CheckOut: "2025-06-11", Adults: 2})
	if err != nil {
		t.Fatalf("check-in today should be accepted: %v", err)
	}
	if stay.Nights() != 1 {
		t.Fatalf("nights = %d, want 1", stay.Nights())
	}
}

func TestNeedCarriesGuestCounts(t *testing.T) {
	need := SearchStaysQuery{Adults: 2, Children: 1, Infants: 1, Rooms: 2, InfantsUseBed: true}.Need()
	if need.Adults != 2 || need.Children != 1 || need.Infants != 1 || need.Rooms != 2 || !need.InfantsUseBed {
		t.Fatalf("unexpected need %+v", need)
	}
}
