package search

import (
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
)

// Candidate is a searchable property with enough available capacity.
type Candidate struct {
	Property       *properties.Property
	TotalCapacity  int
	AvailableRooms []CandidateRoom
	Amenities      []*properties.VocabularyEntry
	Facilities     []*properties.VocabularyEntry
	Safeties       []*properties.VocabularyEntry
	Media          []*properties.Media
}

// CandidateRoom is an available room flattened out of its room type.
type CandidateRoom struct {
	Room     *properties.Room
	RoomType *properties.PropertyRoomType
}

// Aggregate sums, per property, the beds offered by available rooms of
// active room types and keeps the properties meeting minBeds and minRooms.
// Properties keep the graph's order.
func Aggregate(graph *properties.Graph, available availability.RoomSet, minBeds, minRooms int) []Candidate {
	if graph == nil || len(available) == 0 {
		return nil
	}
	var out []Candidate
	for _, p := range graph.Properties() {
		if !p.Searchable() {
			continue
		}
		capacity, rooms := propertyCapacity(graph, p, available)
		if len(rooms) == 0 {
			continue
		}
		if capacity < minBeds || len(rooms) < minRooms {
			continue
		}
		out = append(out, Candidate{
			Property:       p,
			TotalCapacity:  capacity,
			AvailableRooms: rooms,
			Amenities:      graph.FeaturesOf(p, properties.KindAmenity),
			Facilities:     graph.FeaturesOf(p, properties.KindFacility),
			Safeties:       graph.FeaturesOf(p, properties.KindSafety),
			Media:          graph.MediaOf(p),
		})
	}
	return out
}

// PropertyCapacity reports the beds p offers across its available rooms.
func PropertyCapacity(graph *properties.Graph, p *properties.Property, available availability.RoomSet) int {
	capacity, _ := propertyCapacity(graph, p, available)
	return capacity
}

func propertyCapacity(graph *properties.Graph, p *properties.Property, available availability.RoomSet) (int, []CandidateRoom) {
	capacity := 0
	var rooms []CandidateRoom
	for _, t := range graph.RoomTypesOf(p) {
		if !t.Active() {
			continue
		}
		count := 0
		for _, r := range graph.RoomsOf(t) {
			if !r.Active() || !available.Has(r.ID) {
				continue
			}
			count++
			rooms = append(rooms, CandidateRoom{Room: r, RoomType: t})
		}
		capacity += t.BedsPerRoom() * count
	}
	return capacity, rooms
}
