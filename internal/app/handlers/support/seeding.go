package support

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
)

// Seeding applies the calendar horizons configured for each creation path.
type Seeding struct {
	Seeder           availability.Seeder
	AvailabilityDays int
	PropertyRateDays int
	RoomTypeRateDays int
	Logger           *slog.Logger
}

// SeedRoom writes the availability horizon of a new room.
func (s Seeding) SeedRoom(ctx context.Context, w availability.NightWriter, room properties.RoomID) (availability.SeedReport, error) {
	report, err := s.Seeder.SeedAvailability(ctx, w, room, s.availabilityDays(), time.Time{})
	if err != nil {
		return report, err
	}
	s.log("availability seeded", "room_id", room, report)
	return report, nil
}

// SeedPropertyRoomType writes the rate calendar of a room type created
// together with its property.
func (s Seeding) SeedPropertyRoomType(ctx context.Context, w availability.RateWriter, t *properties.PropertyRoomType) (availability.SeedReport, error) {
	return s.seedRates(ctx, w, t, s.propertyRateDays())
}

// SeedAddedRoomType writes the rate calendar of a room type added later.
func (s Seeding) SeedAddedRoomType(ctx context.Context, w availability.RateWriter, t *properties.PropertyRoomType) (availability.SeedReport, error) {
	return s.seedRates(ctx, w, t, s.roomTypeRateDays())
}

func (s Seeding) seedRates(ctx context.Context, w availability.RateWriter, t *properties.PropertyRoomType, days int) (availability.SeedReport, error) {
	report, err := s.Seeder.SeedRateCalendar(ctx, w, t.ID, t.BasePriceCents, days, time.Time{})
	if err != nil {
		return report, err
	}
	s.log("rate calendar seeded", "room_type_id", t.ID, report)
	return report, nil
}

func (s Seeding) log(msg, key string, id any, report availability.SeedReport) {
	if s.Logger == nil {
		return
	}
	s.Logger.Debug(msg, key, id, "inserted", report.Inserted, "skipped", report.Skipped, "batches", report.Batches)
}

func (s Seeding) availabilityDays() int {
	if s.AvailabilityDays > 0 {
		return s.AvailabilityDays
	}
	return availability.DefaultAvailabilityHorizonDays
}

func (s Seeding) propertyRateDays() int {
	if s.PropertyRateDays > 0 {
		return s.PropertyRateDays
	}
	return availability.DefaultPropertyRateHorizonDays
}

func (s Seeding) roomTypeRateDays() int {
	if s.RoomTypeRateDays > 0 {
		return s.RoomTypeRateDays
	}
	return availability.DefaultRoomTypeRateHorizonDays
}
