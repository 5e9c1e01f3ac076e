package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"stayhub/internal/domain/properties"
)

var ErrDuplicateID = errors.New("memory: duplicate id")

// PropertyRepository implements properties.Repository over a Store.
type PropertyRepository struct {
	store *Store
}

func NewPropertyRepository(store *Store) *PropertyRepository {
	return &PropertyRepository{store: store}
}

func (r *PropertyRepository) CreateProperty(ctx context.Context, p *properties.Property) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[p.ID]; ok {
		return ErrDuplicateID
	}
	s.properties[p.ID] = cloneProperty(p)
	s.propertyOrder = append(s.propertyOrder, p.ID)
	return nil
}

func (r *PropertyRepository) CreateRoomType(ctx context.Context, t *properties.PropertyRoomType) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[t.PropertyID]; !ok {
		return properties.ErrNotFound
	}
	if _, ok := s.roomTypes[t.ID]; ok {
		return ErrDuplicateID
	}
	s.roomTypes[t.ID] = cloneRoomType(t)
	s.roomTypeOrder = append(s.roomTypeOrder, t.ID)
	return nil
}

func (r *PropertyRepository) CreateRoom(ctx context.Context, room *properties.Room) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomTypes[room.RoomTypeID]; !ok {
		return properties.ErrNotFound
	}
	if _, ok := s.rooms[room.ID]; ok {
		return ErrDuplicateID
	}
	s.rooms[room.ID] = cloneRoom(room)
	s.roomOrder = append(s.roomOrder, room.ID)
	return nil
}

func (r *PropertyRepository) AddMedia(ctx context.Context, m *properties.Media) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.properties[m.PropertyID]; !ok || p.DeletedAt != nil {
		return properties.ErrNotFound
	}
	if _, ok := s.media[m.ID]; ok {
		return ErrDuplicateID
	}
	s.media[m.ID] = cloneMedia(m)
	s.mediaOrder = append(s.mediaOrder, m.ID)
	return nil
}

func (r *PropertyRepository) ByID(ctx context.Context, id properties.PropertyID) (*properties.Graph, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok || p.DeletedAt != nil {
		return nil, properties.ErrNotFound
	}
	return s.graphOf(func(candidate *properties.Property) bool { return candidate.ID == id }), nil
}

func (r *PropertyRepository) ByRoomIDs(ctx context.Context, ids []properties.RoomID) (*properties.Graph, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make(map[properties.PropertyID]struct{})
	for _, id := range ids {
		room, ok := s.rooms[id]
		if !ok {
			continue
		}
		if t, ok := s.roomTypes[room.RoomTypeID]; ok {
			owners[t.PropertyID] = struct{}{}
		}
	}
	return s.graphOf(func(p *properties.Property) bool {
		_, ok := owners[p.ID]
		return ok && p.Searchable()
	}), nil
}

func (r *PropertyRepository) ListByHost(ctx context.Context, host properties.HostID) ([]*properties.Property, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.graphOf(func(p *properties.Property) bool {
		return p.DeletedAt == nil && (host == "" || p.Host == host)
	})
	return g.Properties(), nil
}

func (r *PropertyRepository) RoomTypeByID(ctx context.Context, id properties.PropertyRoomTypeID) (*properties.PropertyRoomType, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.roomTypes[id]
	if !ok || t.DeletedAt != nil {
		return nil, properties.ErrNotFound
	}
	cp := cloneRoomType(t)
	for _, rid := range s.roomOrder {
		if s.rooms[rid].RoomTypeID == id {
			cp.RoomIDs = append(cp.RoomIDs, rid)
		}
	}
	return cp, nil
}

func (r *PropertyRepository) RoomByID(ctx context.Context, id properties.RoomID) (*properties.Room, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok || room.DeletedAt != nil {
		return nil, properties.ErrNotFound
	}
	return cloneRoom(room), nil
}

func (r *PropertyRepository) OwnerOfRoomType(ctx context.Context, id properties.PropertyRoomTypeID) (*properties.Property, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.roomTypes[id]
	if !ok {
		return nil, properties.ErrNotFound
	}
	p, ok := s.properties[t.PropertyID]
	if !ok || p.DeletedAt != nil {
		return nil, properties.ErrNotFound
	}
	return cloneProperty(p), nil
}

func (r *PropertyRepository) SoftDelete(ctx context.Context, id properties.PropertyID, at time.Time) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok || p.DeletedAt != nil {
		return properties.ErrNotFound
	}
	deletedAt := at.UTC()
	p.DeletedAt = &deletedAt
	p.UpdatedAt = deletedAt
	return nil
}

func (r *PropertyRepository) SetRoomStatus(ctx context.Context, id properties.RoomID, status properties.Status) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, err := properties.ParseStatus(string(status)); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok || room.DeletedAt != nil {
		return properties.ErrNotFound
	}
	room.Status = status
	return nil
}

// VocabularyRepository implements properties.VocabularyRepository over a Store.
type VocabularyRepository struct {
	store *Store
}

func NewVocabularyRepository(store *Store) *VocabularyRepository {
	return &VocabularyRepository{store: store}
}

func (r *VocabularyRepository) Save(ctx context.Context, e *properties.VocabularyEntry) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.vocabulary[e.ID] = cloneVocabulary(e)
	return nil
}

// List returns entries of kind (all kinds when empty) ordered by name.
func (r *VocabularyRepository) List(ctx context.Context, kind properties.Kind) ([]*properties.VocabularyEntry, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*properties.VocabularyEntry, 0)
	for _, e := range r.store.vocabulary {
		if kind == "" || e.Kind == kind {
			out = append(out, cloneVocabulary(e))
		}
	}
	sortVocabulary(out)
	return out, nil
}

func (r *VocabularyRepository) ByIDs(ctx context.Context, ids []properties.VocabularyID) ([]*properties.VocabularyEntry, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*properties.VocabularyEntry, 0, len(ids))
	seen := make(map[properties.VocabularyID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if e, ok := r.store.vocabulary[id]; ok {
			out = append(out, cloneVocabulary(e))
		}
	}
	return out, nil
}

var (
	_ properties.Repository           = (*PropertyRepository)(nil)
	_ properties.VocabularyRepository = (*VocabularyRepository)(nil)
)

func sortVocabulary(entries []*properties.VocabularyEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
}
