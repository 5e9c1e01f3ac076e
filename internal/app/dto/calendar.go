package dto

import (
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

type CalendarDay struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// RoomCalendar lists one entry per night of the window. Nights without a
// row are reported as "unavailable".
type RoomCalendar struct {
	RoomID string        `json:"room_id"`
	From   string        `json:"from"`
	To     string        `json:"to"`
	Days   []CalendarDay `json:"days"`
}

const unseededStatus = "unavailable"

func MapRoomCalendar(room properties.RoomID, r daterange.DateRange, nights []availability.Night) RoomCalendar {
	byDay := make(map[string]availability.Status, len(nights))
	for _, n := range nights {
		byDay[daterange.FormatDay(n.Day)] = n.Status
	}
	out := RoomCalendar{
		RoomID: string(room),
		From:   daterange.FormatDay(r.CheckIn),
		To:     daterange.FormatDay(r.CheckOut),
	}
	for _, d := range r.Days() {
		key := daterange.FormatDay(d)
		status := unseededStatus
		if s, ok := byDay[key]; ok {
			status = string(s)
		}
		out.Days = append(out.Days, CalendarDay{Date: key, Status: status})
	}
	return out
}

type SeedReport struct {
	Target    string `json:"target"`
	From      string `json:"from"`
	Requested int    `json:"requested"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Batches   int    `json:"batches"`
}

func MapSeedReport(target string, r availability.SeedReport) SeedReport {
	return SeedReport{
		Target:    target,
		From:      daterange.FormatDay(r.From),
		Requested: r.Requested,
		Inserted:  r.Inserted,
		Skipped:   r.Skipped,
		Batches:   r.Batches,
	}
}

type NightStatusUpdate struct {
	RoomID  string `json:"room_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Status  string `json:"status"`
	Updated int    `json:"updated"`
}
