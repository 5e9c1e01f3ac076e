package properties

import "slices"

// Graph is an arena of property entities. Relations are id lists resolved
// through the lookup methods; entities never point at each other.
type Graph struct {
	order      []PropertyID
	properties map[PropertyID]*Property
	roomTypes  map[PropertyRoomTypeID]*PropertyRoomType
	rooms      map[RoomID]*Room
	vocabulary map[VocabularyID]*VocabularyEntry
	media      map[MediaID]*Media
}

func NewGraph() *Graph {
	return &Graph{
		properties: make(map[PropertyID]*Property),
		roomTypes:  make(map[PropertyRoomTypeID]*PropertyRoomType),
		rooms:      make(map[RoomID]*Room),
		vocabulary: make(map[VocabularyID]*VocabularyEntry),
		media:      make(map[MediaID]*Media),
	}
}

// AddProperty registers p; the first insertion fixes its position.
func (g *Graph) AddProperty(p *Property) {
	if p == nil {
		return
	}
	if _, ok := g.properties[p.ID]; !ok {
		g.order = append(g.order, p.ID)
	}
	g.properties[p.ID] = p
}

// AddRoomType registers t and links it to its property when present.
func (g *Graph) AddRoomType(t *PropertyRoomType) {
	if t == nil {
		return
	}
	if _, exists := g.roomTypes[t.ID]; !exists {
		if p, ok := g.properties[t.PropertyID]; ok && !slices.Contains(p.RoomTypeIDs, t.ID) {
			p.RoomTypeIDs = append(p.RoomTypeIDs, t.ID)
		}
	}
	g.roomTypes[t.ID] = t
}

// AddRoom registers r and links it to its room type when present.
func (g *Graph) AddRoom(r *Room) {
	if r == nil {
		return
	}
	if _, exists := g.rooms[r.ID]; !exists {
		if t, ok := g.roomTypes[r.RoomTypeID]; ok && !slices.Contains(t.RoomIDs, r.ID) {
			t.RoomIDs = append(t.RoomIDs, r.ID)
		}
	}
	g.rooms[r.ID] = r
}

func (g *Graph) AddVocabulary(e *VocabularyEntry) {
	if e == nil {
		return
	}
	g.vocabulary[e.ID] = e
}

// AddMedia registers m and links it to its property when present.
func (g *Graph) AddMedia(m *Media) {
	if m == nil {
		return
	}
	if _, exists := g.media[m.ID]; !exists {
		if p, ok := g.properties[m.PropertyID]; ok && !slices.Contains(p.MediaIDs, m.ID) {
			p.MediaIDs = append(p.MediaIDs, m.ID)
		}
	}
	g.media[m.ID] = m
}

// Properties returns properties in insertion order.
func (g *Graph) Properties() []*Property {
	out := make([]*Property, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.properties[id])
	}
	return out
}

func (g *Graph) Property(id PropertyID) (*Property, bool) {
	p, ok := g.properties[id]
	return p, ok
}

func (g *Graph) RoomType(id PropertyRoomTypeID) (*PropertyRoomType, bool) {
	t, ok := g.roomTypes[id]
	return t, ok
}

func (g *Graph) Room(id RoomID) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

func (g *Graph) Vocabulary(id VocabularyID) (*VocabularyEntry, bool) {
	e, ok := g.vocabulary[id]
	return e, ok
}

func (g *Graph) Media(id MediaID) (*Media, bool) {
	m, ok := g.media[id]
	return m, ok
}

// RoomTypesOf resolves the room types of p, skipping dangling ids.
func (g *Graph) RoomTypesOf(p *Property) []*PropertyRoomType {
	if p == nil {
		return nil
	}
	out := make([]*PropertyRoomType, 0, len(p.RoomTypeIDs))
	for _, id := range p.RoomTypeIDs {
		if t, ok := g.roomTypes[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// RoomsOf resolves the rooms of t, skipping dangling ids.
func (g *Graph) RoomsOf(t *PropertyRoomType) []*Room {
	if t == nil {
		return nil
	}
	out := make([]*Room, 0, len(t.RoomIDs))
	for _, id := range t.RoomIDs {
		if r, ok := g.rooms[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FeaturesOf resolves the vocabulary entries of p with the given kind.
func (g *Graph) FeaturesOf(p *Property, kind Kind) []*VocabularyEntry {
	if p == nil {
		return nil
	}
	var out []*VocabularyEntry
	for _, id := range p.FeatureIDs {
		if e, ok := g.vocabulary[id]; ok && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// MediaOf resolves the media of p in stored order.
func (g *Graph) MediaOf(p *Property) []*Media {
	if p == nil {
		return nil
	}
	out := make([]*Media, 0, len(p.MediaIDs))
	for _, id := range p.MediaIDs {
		if m, ok := g.media[id]; ok {
			out = append(out, m)
		}
	}
	return out
}
