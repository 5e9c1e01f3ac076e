package search

import (
	"context"
	"fmt"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// NoMatchesMessage accompanies an empty outcome.
const NoMatchesMessage = "no stays match the requested dates and guests"

// PropertyFinder loads the searchable properties owning any of the rooms.
type PropertyFinder interface {
	ByRoomIDs(ctx context.Context, ids []properties.RoomID) (*properties.Graph, error)
}

type Outcome struct {
	Range   daterange.DateRange
	Need    GuestNeed
	Nights  int
	Results []Result
	Message string
}

// Engine runs resolve, aggregate and build one after another.
type Engine struct {
	Availability availability.NightCounter
	Properties   PropertyFinder
}

func (e Engine) FindCandidateProperties(ctx context.Context, r daterange.DateRange, need GuestNeed, minBeds int) ([]Candidate, error) {
	available, err := availability.ResolveAvailableRoomIDs(ctx, e.Availability, r)
	if err != nil {
		return nil, fmt.Errorf("resolve available rooms: %w", err)
	}
	if len(available) == 0 {
		return nil, nil
	}
	graph, err := e.Properties.ByRoomIDs(ctx, available.IDs())
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	return Aggregate(graph, available, minBeds, need.RoomsRequested()), nil
}

func (e Engine) Search(ctx context.Context, r daterange.DateRange, need GuestNeed) (Outcome, error) {
	if err := r.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := need.Validate(); err != nil {
		return Outcome{}, err
	}
	nights, err := daterange.NightsBetween(r.CheckIn, r.CheckOut)
	if err != nil {
		return Outcome{}, err
	}
	candidates, err := e.FindCandidateProperties(ctx, r, need, need.BedsNeeded())
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{
		Range:   r,
		Need:    need,
		Nights:  nights,
		Results: BuildResults(candidates, need, nights, daterange.EachUTCDay(r.CheckIn, r.CheckOut)),
	}
	if len(out.Results) == 0 {
		out.Message = NoMatchesMessage
	}
	return out, nil
}
