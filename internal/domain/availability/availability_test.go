package availability

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

type fakeStore struct {
	nights map[string]Night
	rates  map[string]Rate
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nights: map[string]Night{}, rates: map[string]Rate{}}
}

func (f *fakeStore) InsertNights(_ context.Context, rows []Night) (int, error) {
	f.writes++
	inserted := 0
	for _, row := range rows {
		key := string(row.RoomID) + "|" + daterange.FormatDay(row.Day)
		if _, ok := f.nights[key]; ok {
			continue
		}
		f.nights[key] = row
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) InsertRates(_ context.Context, rows []Rate) (int, error) {
	f.writes++
	inserted := 0
	for _, row := range rows {
		key := string(row.RoomTypeID) + "|" + daterange.FormatDay(row.Day)
		if _, ok := f.rates[key]; ok {
			continue
		}
		f.rates[key] = row
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) AvailableNightCounts(_ context.Context, r daterange.DateRange) ([]RoomNights, error) {
	counts := map[properties.RoomID]int{}
	for _, n := range f.nights {
		if n.Status == StatusAvailable && r.ContainsDate(n.Day) {
			counts[n.RoomID]++
		}
	}
	out := make([]RoomNights, 0, len(counts))
	for id, c := range counts {
		out = append(out, RoomNights{RoomID: id, AvailableNights: c})
	}
	return out, nil
}

type failingCounter struct{}

func (failingCounter) AvailableNightCounts(context.Context, daterange.DateRange) ([]RoomNights, error) {
	return nil, errors.New("boom")
}

func TestSeedAvailabilityIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seeder := Seeder{}
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := seeder.SeedAvailability(context.Background(), store, "room-1", 90, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := seeder.SeedAvailability(context.Background(), store, "room-1", 90, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.nights) != 90 {
		t.Fatalf("expected 90 rows, got %d", len(store.nights))
	}
	if first.Inserted != 90 || first.Skipped != 0 || first.Batches != 3 {
		t.Fatalf("unexpected first report %+v", first)
	}
	if second.Inserted != 0 || second.Skipped != 90 {
		t.Fatalf("unexpected second report %+v", second)
	}
}

func TestSeedRateCalendarWritesOneRowPerDay(t *testing.T) {
	store := newFakeStore()
	seeder := Seeder{BatchDays: 30}
	start := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)
	report, err := seeder.SeedRateCalendar(context.Background(), store, "rt-1", 12000, 365, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.rates) != 365 || report.Batches != 13 {
		t.Fatalf("expected 365 rows in 13 batches, got %d rows / %+v", len(store.rates), report)
	}
	last := store.rates["rt-1|2025-12-31"]
	if last.PriceCents != 12000 || !last.IsOpen {
		t.Fatalf("unexpected last row %+v", last)
	}
	if _, ok := store.rates["rt-1|2026-01-01"]; ok {
		t.Fatalf("horizon overflowed")
	}
}

func TestSeederDefaultsToToday(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 2, 14, 22, 0, 0, 0, time.UTC)
	seeder := Seeder{Now: func() time.Time { return now }}
	report, err := seeder.SeedAvailability(context.Background(), store, "room-1", 3, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if daterange.FormatDay(report.From) != "2025-02-14" {
		t.Fatalf("expected seeding from today, got %v", report.From)
	}
	if _, err := seeder.SeedAvailability(context.Background(), store, "room-1", 0, now); !errors.Is(err, ErrInvalidHorizon) {
		t.Fatalf("expected ErrInvalidHorizon, got %v", err)
	}
}

func TestBatchesCoverHorizonExactly(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, horizon := range []int{1, 29, 30, 31, 90, 365} {
		total := 0
		var prevEnd time.Time
		for i, b := range Batches(from, horizon, 30) {
			if b.Nights() > 30 {
				t.Fatalf("batch larger than 30 days: %d", b.Nights())
			}
			if i > 0 && !b.CheckIn.Equal(prevEnd) {
				t.Fatalf("batches are not contiguous")
			}
			prevEnd = b.CheckOut
			total += b.Nights()
		}
		if total != horizon {
			t.Fatalf("horizon %d covered %d days", horizon, total)
		}
	}
}

func TestResolverRequiresEveryNight(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))
	seeder := Seeder{}

	r, _ := daterange.New(start, start.AddDate(0, 0, 5))
	want := NewRoomSet()
	for i := 0; i < 40; i++ {
		room := properties.RoomID(fmt.Sprintf("room-%02d", i))
		if _, err := seeder.SeedAvailability(context.Background(), store, room, 10, start); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if rng.Intn(2) == 0 {
			want[room] = struct{}{}
			continue
		}
		missing := daterange.AddUTCDays(start, rng.Intn(5))
		key := string(room) + "|" + daterange.FormatDay(missing)
		if rng.Intn(2) == 0 {
			delete(store.nights, key)
		} else {
			n := store.nights[key]
			n.Status = StatusBlocked
			store.nights[key] = n
		}
	}

	got, err := ResolveAvailableRoomIDs(context.Background(), store, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rooms, got %d", len(want), len(got))
	}
	for id := range want {
		if !got.Has(id) {
			t.Fatalf("expected %s to be available", id)
		}
	}
}

func TestResolverTreatsLapsedHorizonAsUnavailable(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := (Seeder{}).SeedAvailability(context.Background(), store, "room-1", 3, start); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r, _ := daterange.New(start.AddDate(0, 0, 1), start.AddDate(0, 0, 5))
	got, err := ResolveAvailableRoomIDs(context.Background(), store, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rooms beyond horizon, got %v", got.IDs())
	}
}

func TestResolverPropagatesErrors(t *testing.T) {
	r, _ := daterange.New(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	if _, err := ResolveAvailableRoomIDs(context.Background(), failingCounter{}, r); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ResolveAvailableRoomIDs(context.Background(), failingCounter{}, daterange.DateRange{}); !errors.Is(err, daterange.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for empty range, got %v", err)
	}
}
