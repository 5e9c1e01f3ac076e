package dto

import (
	"stayhub/internal/domain/search"
	"stayhub/internal/domain/shared/daterange"
)

type SearchParams struct {
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	Infants       int    `json:"infants"`
	Rooms         int    `json:"rooms"`
	InfantsUseBed bool   `json:"infants_use_bed"`
	Nights        int    `json:"nights"`
}

type CandidateRoom struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MaxOccupancy int    `json:"max_occupancy"`
	RoomTypeID   string `json:"room_type_id"`
	RoomType     string `json:"room_type"`
	Beds         int    `json:"beds"`
	PriceCents   int64  `json:"base_price_cents"`
}

type StayResult struct {
	Property      PropertySummary `json:"property"`
	TotalCapacity int             `json:"total_capacity"`
	Rooms         []CandidateRoom `json:"rooms"`
	Nights        int             `json:"nights"`
	Dates         []string        `json:"dates"`
}

type StaySearch struct {
	Params  SearchParams `json:"params"`
	Results []StayResult `json:"results"`
	Message string       `json:"message,omitempty"`
}

func MapStaySearch(out search.Outcome) StaySearch {
	res := StaySearch{
		Params: SearchParams{
			CheckIn:       daterange.FormatDay(out.Range.CheckIn),
			CheckOut:      daterange.FormatDay(out.Range.CheckOut),
			Adults:        out.Need.Adults,
			Children:      out.Need.Children,
			Infants:       out.Need.Infants,
			Rooms:         out.Need.RoomsRequested(),
			InfantsUseBed: out.Need.InfantsUseBed,
			Nights:        out.Nights,
		},
		Results: make([]StayResult, 0, len(out.Results)),
		Message: out.Message,
	}
	for _, r := range out.Results {
		res.Results = append(res.Results, mapStayResult(r))
	}
	return res
}

func mapStayResult(r search.Result) StayResult {
	p := r.Property
	out := StayResult{
		Property: PropertySummary{
			ID:          string(p.ID),
			Title:       p.Title,
			Description: p.Description,
			Location:    MapLocation(p.Location),
			Amenities:   MapVocabulary(r.Amenities),
			Facilities:  MapVocabulary(r.Facilities),
			Safeties:    MapVocabulary(r.Safeties),
			Media:       MapMedia(r.Media),
		},
		TotalCapacity: r.TotalCapacity,
		Rooms:         make([]CandidateRoom, 0, len(r.Rooms)),
		Nights:        r.Nights,
		Dates:         make([]string, 0, len(r.Dates)),
	}
	for _, c := range r.Rooms {
		out.Rooms = append(out.Rooms, CandidateRoom{
			ID:           string(c.Room.ID),
			Name:         c.Room.Name,
			MaxOccupancy: c.Room.MaxOccupancy,
			RoomTypeID:   string(c.RoomType.ID),
			RoomType:     c.RoomType.Name,
			Beds:         c.RoomType.BedsPerRoom(),
			PriceCents:   c.RoomType.BasePriceCents,
		})
	}
	for _, d := range r.Dates {
		out.Dates = append(out.Dates, daterange.FormatDay(d))
	}
	return out
}
