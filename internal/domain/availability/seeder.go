package availability

import (
	"context"
	"fmt"
	"time"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

const (
	DefaultBatchDays               = 30
	DefaultAvailabilityHorizonDays = 90
	DefaultPropertyRateHorizonDays = 365
	DefaultRoomTypeRateHorizonDays = 180
)

// SeedReport summarises one seeding run.
type SeedReport struct {
	From      time.Time `json:"from"`
	Requested int       `json:"requested"`
	Inserted  int       `json:"inserted"`
	Skipped   int       `json:"skipped"`
	Batches   int       `json:"batches"`
}

// Seeder pre-generates one row per day for a fixed horizon. Rows are written
// in batches so each write stays small; whether batches share a transaction
// is decided by the writer handed in.
type Seeder struct {
	BatchDays int
	Now       func() time.Time
}

// SeedAvailability writes horizonDays available nights for room starting at
// start (today when zero).
func (s Seeder) SeedAvailability(ctx context.Context, w NightWriter, room properties.RoomID, horizonDays int, start time.Time) (SeedReport, error) {
	from, err := s.window(horizonDays, start)
	if err != nil {
		return SeedReport{}, err
	}
	report := SeedReport{From: from, Requested: horizonDays}
	for _, batch := range Batches(from, horizonDays, s.batchDays()) {
		days := batch.Days()
		rows := make([]Night, 0, len(days))
		for _, d := range days {
			rows = append(rows, Night{RoomID: room, Day: d, Status: StatusAvailable})
		}
		inserted, err := w.InsertNights(ctx, rows)
		if err != nil {
			return report, fmt.Errorf("seed availability %s batch %s: %w", room, daterange.FormatDay(batch.CheckIn), err)
		}
		report.add(len(rows), inserted)
	}
	return report, nil
}

// SeedRateCalendar writes horizonDays open rate rows at basePriceCents.
func (s Seeder) SeedRateCalendar(ctx context.Context, w RateWriter, roomType properties.PropertyRoomTypeID, basePriceCents int64, horizonDays int, start time.Time) (SeedReport, error) {
	if basePriceCents < 0 {
		return SeedReport{}, properties.ErrNegativePrice
	}
	from, err := s.window(horizonDays, start)
	if err != nil {
		return SeedReport{}, err
	}
	report := SeedReport{From: from, Requested: horizonDays}
	for _, batch := range Batches(from, horizonDays, s.batchDays()) {
		days := batch.Days()
		rows := make([]Rate, 0, len(days))
		for _, d := range days {
			rows = append(rows, Rate{RoomTypeID: roomType, Day: d, PriceCents: basePriceCents, IsOpen: true})
		}
		inserted, err := w.InsertRates(ctx, rows)
		if err != nil {
			return report, fmt.Errorf("seed rates %s batch %s: %w", roomType, daterange.FormatDay(batch.CheckIn), err)
		}
		report.add(len(rows), inserted)
	}
	return report, nil
}

// Batches splits [from, from+horizon) into consecutive ranges of at most size days.
func Batches(from time.Time, horizonDays, size int) []daterange.DateRange {
	if horizonDays <= 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultBatchDays
	}
	from = daterange.ToUTCDay(from)
	out := make([]daterange.DateRange, 0, (horizonDays+size-1)/size)
	for offset := 0; offset < horizonDays; offset += size {
		length := size
		if offset+length > horizonDays {
			length = horizonDays - offset
		}
		start := daterange.AddUTCDays(from, offset)
		out = append(out, daterange.DateRange{CheckIn: start, CheckOut: daterange.AddUTCDays(start, length)})
	}
	return out
}

func (s Seeder) window(horizonDays int, start time.Time) (time.Time, error) {
	if horizonDays <= 0 {
		return time.Time{}, ErrInvalidHorizon
	}
	if start.IsZero() {
		start = s.now()
	}
	return daterange.ToUTCDay(start), nil
}

func (s Seeder) batchDays() int {
	if s.BatchDays > 0 {
		return s.BatchDays
	}
	return DefaultBatchDays
}

func (s Seeder) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *SeedReport) add(requested, inserted int) {
	r.Batches++
	r.Inserted += inserted
	r.Skipped += requested - inserted
}
