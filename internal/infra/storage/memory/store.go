package memory

import (
	"context"
	"sync"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// Store is the shared in-memory state behind the repositories. It provides
// no isolation between units of work; a single mutex serialises access.
type Store struct {
	mu sync.RWMutex

	propertyOrder []properties.PropertyID
	properties    map[properties.PropertyID]*properties.Property
	roomTypeOrder []properties.PropertyRoomTypeID
	roomTypes     map[properties.PropertyRoomTypeID]*properties.PropertyRoomType
	roomOrder     []properties.RoomID
	rooms         map[properties.RoomID]*properties.Room
	mediaOrder    []properties.MediaID
	media         map[properties.MediaID]*properties.Media
	vocabulary    map[properties.VocabularyID]*properties.VocabularyEntry

	nights map[nightKey]availability.Night
	rates  map[rateKey]availability.Rate
}

type nightKey struct {
	room properties.RoomID
	day  string
}

type rateKey struct {
	roomType properties.PropertyRoomTypeID
	day      string
}

func NewStore() *Store {
	return &Store{
		properties: make(map[properties.PropertyID]*properties.Property),
		roomTypes:  make(map[properties.PropertyRoomTypeID]*properties.PropertyRoomType),
		rooms:      make(map[properties.RoomID]*properties.Room),
		media:      make(map[properties.MediaID]*properties.Media),
		vocabulary: make(map[properties.VocabularyID]*properties.VocabularyEntry),
		nights:     make(map[nightKey]availability.Night),
		rates:      make(map[rateKey]availability.Rate),
	}
}

func keyOfNight(room properties.RoomID, day string) nightKey {
	return nightKey{room: room, day: day}
}

func keyOfRate(roomType properties.PropertyRoomTypeID, day string) rateKey {
	return rateKey{roomType: roomType, day: day}
}

// eligibleRoom reports whether the room, its type and its property are all
// active and not deleted. Callers hold the lock.
func (s *Store) eligibleRoom(id properties.RoomID) bool {
	room, ok := s.rooms[id]
	if !ok || !room.Active() {
		return false
	}
	t, ok := s.roomTypes[room.RoomTypeID]
	if !ok || !t.Active() {
		return false
	}
	p, ok := s.properties[t.PropertyID]
	return ok && p.Searchable()
}

// graphOf builds a graph for the given properties in store order. Callers
// hold the lock.
func (s *Store) graphOf(include func(p *properties.Property) bool) *properties.Graph {
	g := properties.NewGraph()
	for _, id := range s.propertyOrder {
		p := s.properties[id]
		if !include(p) {
			continue
		}
		g.AddProperty(cloneProperty(p))
		for _, fid := range p.FeatureIDs {
			if e, ok := s.vocabulary[fid]; ok {
				g.AddVocabulary(cloneVocabulary(e))
			}
		}
	}
	for _, id := range s.roomTypeOrder {
		t := s.roomTypes[id]
		if _, ok := g.Property(t.PropertyID); ok {
			g.AddRoomType(cloneRoomType(t))
			if e, ok := s.vocabulary[t.RoomTypeID]; ok {
				g.AddVocabulary(cloneVocabulary(e))
			}
		}
	}
	for _, id := range s.roomOrder {
		r := s.rooms[id]
		if _, ok := g.RoomType(r.RoomTypeID); ok {
			g.AddRoom(cloneRoom(r))
		}
	}
	for _, id := range s.mediaOrder {
		m := s.media[id]
		if _, ok := g.Property(m.PropertyID); ok {
			g.AddMedia(cloneMedia(m))
		}
	}
	return g
}

func inRange(r daterange.DateRange, day string) bool {
	return day >= daterange.FormatDay(r.CheckIn) && day < daterange.FormatDay(r.CheckOut)
}

func cloneProperty(p *properties.Property) *properties.Property {
	cp := &properties.Property{
		ID:          p.ID,
		Host:        p.Host,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Location:    p.Location,
		FeatureIDs:  append([]properties.VocabularyID(nil), p.FeatureIDs...),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.DeletedAt != nil {
		at := *p.DeletedAt
		cp.DeletedAt = &at
	}
	return cp
}

func cloneRoomType(t *properties.PropertyRoomType) *properties.PropertyRoomType {
	cp := *t
	cp.RoomIDs = nil
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		cp.DeletedAt = &at
	}
	return &cp
}

func cloneRoom(r *properties.Room) *properties.Room {
	cp := *r
	if r.DeletedAt != nil {
		at := *r.DeletedAt
		cp.DeletedAt = &at
	}
	return &cp
}

func cloneMedia(m *properties.Media) *properties.Media {
	cp := *m
	return &cp
}

func cloneVocabulary(e *properties.VocabularyEntry) *properties.VocabularyEntry {
	cp := *e
	return &cp
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
