package daterange

import (
	"errors"
	"testing"
	"time"
)

func TestToUTCDayKeepsCalendarDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	in := time.Date(2025, 3, 9, 23, 30, 0, 0, tokyo)
	got := ToUTCDay(in)
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseDay(t *testing.T) {
	cases := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{raw: " 2025-06-01 ", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{raw: "2025-06-01T18:45:00+02:00", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{raw: "", wantErr: true},
		{raw: "2025-13-01", wantErr: true},
		{raw: "tomorrow", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDay(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("%q: expected ErrInvalidDate, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestNightsBetweenMatchesEachUTCDay(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 400; offset += 7 {
		for length := 1; length <= 45; length += 4 {
			start := AddUTCDays(base, offset)
			end := AddUTCDays(start, length)
			nights, err := NightsBetween(start, end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			days := EachUTCDay(start, end)
			if nights != len(days) {
				t.Fatalf("start %v length %d: nights %d, days %d", start, length, nights, len(days))
			}
			if nights != length {
				t.Fatalf("expected %d nights, got %d", length, nights)
			}
		}
	}
}

func TestNightsBetweenRejectsEmptyAndNegative(t *testing.T) {
	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if _, err := NightsBetween(d, d); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for equal dates, got %v", err)
	}
	if _, err := NightsBetween(d, d.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for reversed dates, got %v", err)
	}
	if _, err := NightsBetween(time.Time{}, d); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for zero start, got %v", err)
	}
}

func TestEachUTCDayIsAscendingAndHalfOpen(t *testing.T) {
	start := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	days := EachUTCDay(start, end)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if FormatDay(days[0]) != "2025-06-01" || FormatDay(days[1]) != "2025-06-02" {
		t.Fatalf("unexpected days %v", days)
	}
	if EachUTCDay(end, start) != nil {
		t.Fatalf("expected nil for reversed range")
	}
}

func TestAddUTCDaysRoundTripAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	base := time.Date(2025, 3, 8, 23, 0, 0, 0, ny)
	for n := -400; n <= 400; n += 13 {
		shifted := AddUTCDays(base, n)
		back := AddUTCDays(shifted, -n)
		if !back.Equal(ToUTCDay(base)) {
			t.Fatalf("n=%d: expected %v, got %v", n, ToUTCDay(base), back)
		}
		if shifted.Hour() != 0 || shifted.Minute() != 0 {
			t.Fatalf("n=%d: drifted off midnight: %v", n, shifted)
		}
	}
}

func TestNewRejectsEqualDates(t *testing.T) {
	if _, err := Parse("2025-01-10", "2025-01-10"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	dr, err := Parse("2025-06-01", "2025-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dr.Nights() != 2 || len(dr.Days()) != 2 {
		t.Fatalf("expected 2 nights, got %d", dr.Nights())
	}
	if !dr.ContainsDate(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected range to contain June 2nd")
	}
	if dr.ContainsDate(dr.CheckOut) {
		t.Fatalf("checkout day must be excluded")
	}
}
