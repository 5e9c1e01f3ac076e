package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainsearch "stayhub/internal/domain/search"
	"stayhub/internal/domain/shared/daterange"
)

const searchStaysKey = "search.stays"

var (
	ErrDatesRequired = errors.New("search: checkIn and checkOut are required")
	ErrCheckInPast   = errors.New("search: checkIn must not be in the past")
)

type SearchStaysQuery struct {
	CheckIn       string
	CheckOut      string
	Adults        int `validate:"gte=0,lte=500"`
	Children      int `validate:"gte=0,lte=500"`
	Infants       int `validate:"gte=0,lte=500"`
	Rooms         int `validate:"gte=0,lte=500"`
	InfantsUseBed bool
}

func (q SearchStaysQuery) Key() string { return searchStaysKey }

// Need converts the query's guest counts.
func (q SearchStaysQuery) Need() domainsearch.GuestNeed {
	return domainsearch.GuestNeed{
		Adults:        q.Adults,
		Children:      q.Children,
		Infants:       q.Infants,
		InfantsUseBed: q.InfantsUseBed,
		Rooms:         q.Rooms,
	}
}

// SearchStaysHandler validates the request before touching storage, then
// resolves rooms, aggregates capacity and builds results in that order.
type SearchStaysHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *SearchStaysHandler) Handle(ctx context.Context, q SearchStaysQuery) (dto.StaySearch, error) {
	stay, err := h.validate(q)
	if err != nil {
		return dto.StaySearch{}, err
	}
	need := q.Need()

	unit, ctx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.StaySearch{}, err
	}
	defer release()

	engine := domainsearch.Engine{Availability: unit.Availability(), Properties: unit.Properties()}
	outcome, err := engine.Search(ctx, stay, need)
	if err != nil {
		return dto.StaySearch{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("stay search",
			"check_in", daterange.FormatDay(stay.CheckIn),
			"check_out", daterange.FormatDay(stay.CheckOut),
			"guests", need.TotalGuests(),
			"results", len(outcome.Results),
		)
	}
	return dto.MapStaySearch(outcome), nil
}

func (h *SearchStaysHandler) validate(q SearchStaysQuery) (daterange.DateRange, error) {
	if strings.TrimSpace(q.CheckIn) == "" || strings.TrimSpace(q.CheckOut) == "" {
		return daterange.DateRange{}, ErrDatesRequired
	}
	stay, err := daterange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return daterange.DateRange{}, err
	}
	if stay.CheckIn.Before(daterange.ToUTCDay(h.now())) {
		return daterange.DateRange{}, ErrCheckInPast
	}
	if err := q.Need().Validate(); err != nil {
		return daterange.DateRange{}, err
	}
	return stay, nil
}

func (h *SearchStaysHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ queries.Handler[SearchStaysQuery, dto.StaySearch] = (*SearchStaysHandler)(nil)
