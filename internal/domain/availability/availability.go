package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

var (
	ErrInvalidStatus  = errors.New("availability: invalid status")
	ErrInvalidHorizon = errors.New("availability: horizon must be at least one day")
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBlocked   Status = "blocked"
	StatusBooked    Status = "booked"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusBlocked:
		return StatusBlocked, nil
	case StatusBooked:
		return StatusBooked, nil
	}
	return "", ErrInvalidStatus
}

// Night is the bookable status of one room on one UTC day.
// (RoomID, Day) is unique.
type Night struct {
	RoomID properties.RoomID
	Day    time.Time
	Status Status
}

// Rate is the price of one property room type on one UTC day.
// (RoomTypeID, Day) is unique.
type Rate struct {
	RoomTypeID properties.PropertyRoomTypeID
	Day        time.Time
	PriceCents int64
	IsOpen     bool
}

// RoomNights counts the available nights an eligible room has inside a range.
type RoomNights struct {
	RoomID          properties.RoomID
	AvailableNights int
}

// NightWriter inserts availability rows, skipping (room, day) pairs that exist.
type NightWriter interface {
	InsertNights(ctx context.Context, rows []Night) (int, error)
}

// RateWriter inserts rate rows, skipping (room type, day) pairs that exist.
type RateWriter interface {
	InsertRates(ctx context.Context, rows []Rate) (int, error)
}

type Repository interface {
	NightWriter
	RateWriter

	// AvailableNightCounts reports, for every eligible room (active and not
	// deleted, as are its room type and property), how many non-deleted
	// available rows it has inside the range. Eligible rooms without rows
	// may be omitted.
	AvailableNightCounts(ctx context.Context, r daterange.DateRange) ([]RoomNights, error)
	Nights(ctx context.Context, room properties.RoomID, r daterange.DateRange) ([]Night, error)
	SetNightStatus(ctx context.Context, room properties.RoomID, r daterange.DateRange, status Status) (int, error)
	CountNights(ctx context.Context, room properties.RoomID) (int, error)
	CountRates(ctx context.Context, roomType properties.PropertyRoomTypeID) (int, error)
}
