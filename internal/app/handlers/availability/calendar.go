package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

const (
	roomCalendarKey = "availability.room_calendar"

	defaultCalendarDays = 30
	maxCalendarDays     = 366
)

var ErrCalendarWindow = errors.New("availability: calendar window is limited to 366 nights")

type RoomCalendarQuery struct {
	RoomID string `validate:"required"`
	From   string
	To     string
}

func (q RoomCalendarQuery) Key() string { return roomCalendarKey }

type RoomCalendarHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *RoomCalendarHandler) Handle(ctx context.Context, q RoomCalendarQuery) (dto.RoomCalendar, error) {
	window, err := h.window(q.From, q.To)
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	unit, ctx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	defer release()

	room, err := unit.Properties().RoomByID(ctx, properties.RoomID(q.RoomID))
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	nights, err := unit.Availability().Nights(ctx, room.ID, window)
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	return dto.MapRoomCalendar(room.ID, window, nights), nil
}

func (h *RoomCalendarHandler) window(fromRaw, toRaw string) (daterange.DateRange, error) {
	from := daterange.ToUTCDay(h.now())
	if strings.TrimSpace(fromRaw) != "" {
		parsed, err := daterange.ParseDay(fromRaw)
		if err != nil {
			return daterange.DateRange{}, err
		}
		from = parsed
	}
	to := daterange.AddUTCDays(from, defaultCalendarDays)
	if strings.TrimSpace(toRaw) != "" {
		parsed, err := daterange.ParseDay(toRaw)
		if err != nil {
			return daterange.DateRange{}, err
		}
		to = parsed
	}
	r, err := daterange.New(from, to)
	if err != nil {
		return daterange.DateRange{}, err
	}
	if r.Nights() > maxCalendarDays {
		return daterange.DateRange{}, ErrCalendarWindow
	}
	return r, nil
}

func (h *RoomCalendarHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ queries.Handler[RoomCalendarQuery, dto.RoomCalendar] = (*RoomCalendarHandler)(nil)
