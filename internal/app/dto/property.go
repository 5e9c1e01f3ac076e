package dto

import (
	"time"

	"stayhub/internal/domain/properties"
)

type Location struct {
	Line1   string  `json:"line1"`
	City    string  `json:"city"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type VocabularyEntry struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type Media struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Position    int    `json:"position"`
}

type Room struct {
	ID           string `json:"id"`
	RoomTypeID   string `json:"room_type_id"`
	Name         string `json:"name"`
	MaxOccupancy int    `json:"max_occupancy"`
	Status       string `json:"status"`
}

type RoomType struct {
	ID               string `json:"id"`
	RoomTypeID       string `json:"room_type_id,omitempty"`
	Name             string `json:"name"`
	BasePriceCents   int64  `json:"base_price_cents"`
	Occupancy        int    `json:"occupancy"`
	ExtraBedCapacity int    `json:"extra_bed_capacity"`
	Status           string `json:"status"`
	Rooms            []Room `json:"rooms"`
}

// PropertySummary is the display shape shared by search and detail views.
type PropertySummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Location    Location          `json:"location"`
	Amenities   []VocabularyEntry `json:"amenities"`
	Facilities  []VocabularyEntry `json:"facilities"`
	Safeties    []VocabularyEntry `json:"safeties"`
	Media       []Media           `json:"media"`
}

type PropertyDetail struct {
	PropertySummary
	HostID    string     `json:"host_id"`
	Status    string     `json:"status"`
	RoomTypes []RoomType `json:"room_types"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type HostProperty struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HostPropertyList struct {
	Items []HostProperty `json:"items"`
}

func MapLocation(l properties.Location) Location {
	return Location{Line1: l.Line1, City: l.City, Region: l.Region, Country: l.Country, Lat: l.Lat, Lon: l.Lon}
}

func MapVocabulary(entries []*properties.VocabularyEntry) []VocabularyEntry {
	out := make([]VocabularyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, MapVocabularyEntry(e))
	}
	return out
}

func MapVocabularyEntry(e *properties.VocabularyEntry) VocabularyEntry {
	return VocabularyEntry{ID: string(e.ID), Kind: string(e.Kind), Name: e.Name, Icon: e.Icon}
}

func MapMedia(items []*properties.Media) []Media {
	out := make([]Media, 0, len(items))
	for _, m := range items {
		out = append(out, Media{ID: string(m.ID), URL: m.URL, ContentType: m.ContentType, Position: m.Position})
	}
	return out
}

func MapRoom(r *properties.Room) Room {
	return Room{
		ID:           string(r.ID),
		RoomTypeID:   string(r.RoomTypeID),
		Name:         r.Name,
		MaxOccupancy: r.MaxOccupancy,
		Status:       string(r.Status),
	}
}

func MapRoomType(t *properties.PropertyRoomType, rooms []*properties.Room) RoomType {
	out := RoomType{
		ID:               string(t.ID),
		RoomTypeID:       string(t.RoomTypeID),
		Name:             t.Name,
		BasePriceCents:   t.BasePriceCents,
		Occupancy:        t.Occupancy,
		ExtraBedCapacity: t.ExtraBedCapacity,
		Status:           string(t.Status),
		Rooms:            make([]Room, 0, len(rooms)),
	}
	for _, r := range rooms {
		if r.DeletedAt != nil {
			continue
		}
		out.Rooms = append(out.Rooms, MapRoom(r))
	}
	return out
}

func MapPropertySummary(g *properties.Graph, p *properties.Property) PropertySummary {
	return PropertySummary{
		ID:          string(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Location:    MapLocation(p.Location),
		Amenities:   MapVocabulary(g.FeaturesOf(p, properties.KindAmenity)),
		Facilities:  MapVocabulary(g.FeaturesOf(p, properties.KindFacility)),
		Safeties:    MapVocabulary(g.FeaturesOf(p, properties.KindSafety)),
		Media:       MapMedia(g.MediaOf(p)),
	}
}

func MapPropertyDetail(g *properties.Graph, p *properties.Property) PropertyDetail {
	detail := PropertyDetail{
		PropertySummary: MapPropertySummary(g, p),
		HostID:          string(p.Host),
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, t := range g.RoomTypesOf(p) {
		if t.DeletedAt != nil {
			continue
		}
		detail.RoomTypes = append(detail.RoomTypes, MapRoomType(t, g.RoomsOf(t)))
	}
	if detail.RoomTypes == nil {
		detail.RoomTypes = []RoomType{}
	}
	return detail
}

func MapHostProperties(items []*properties.Property) HostPropertyList {
	out := HostPropertyList{Items: make([]HostProperty, 0, len(items))}
	for _, p := range items {
		out.Items = append(out.Items, HostProperty{
			ID:        string(p.ID),
			Title:     p.Title,
			Status:    string(p.Status),
			City:      p.Location.City,
			Country:   p.Location.Country,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out
}
