package daterange

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidDate  = errors.New("daterange: invalid date")
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

const (
	dayLayout = "2006-01-02"
	day       = 24 * time.Hour
)

// DateRange represents a half-open interval [checkIn, checkOut) of UTC days.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: ToUTCDay(checkIn), CheckOut: ToUTCDay(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two day strings.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDay(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDay(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return New(in, out)
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the night count of a validated range.
func (dr DateRange) Nights() int {
	n, err := NightsBetween(dr.CheckIn, dr.CheckOut)
	if err != nil {
		return 0
	}
	return n
}

// Days lists every night of the range.
func (dr DateRange) Days() []time.Time {
	return EachUTCDay(dr.CheckIn, dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = ToUTCDay(t)
	return (t.Equal(dr.CheckIn) || t.After(dr.CheckIn)) && t.Before(dr.CheckOut)
}

// ToUTCDay keeps the calendar date of t and drops the time of day and offset.
func ToUTCDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts YYYY-MM-DD or RFC3339 input.
func ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(dayLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return ToUTCDay(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDay renders the storage key of a day.
func FormatDay(t time.Time) string {
	return ToUTCDay(t).Format(dayLayout)
}

// NightsBetween counts nights between two days, rounding partial days up.
func NightsBetween(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrInvalidDate
	}
	diff := ToUTCDay(end).Sub(ToUTCDay(start))
	nights := int(math.Ceil(float64(diff) / float64(day)))
	if nights <= 0 {
		return 0, ErrInvalidRange
	}
	return nights, nil
}

// EachUTCDay lists the days in [start, end).
func EachUTCDay(start, end time.Time) []time.Time {
	from := ToUTCDay(start)
	to := ToUTCDay(end)
	if from.IsZero() || !to.After(from) {
		return nil
	}
	out := make([]time.Time, 0, int(to.Sub(from)/day))
	for d := from; d.Before(to); d = AddUTCDays(d, 1) {
		out = append(out, d)
	}
	return out
}

// AddUTCDays shifts base by n calendar days in UTC.
func AddUTCDays(base time.Time, n int) time.Time {
	return ToUTCDay(base).AddDate(0, 0, n)
}
