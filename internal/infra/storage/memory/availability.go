package memory

import (
	"context"
	"sort"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// AvailabilityRepository keeps night and rate rows keyed by (owner, day).
type AvailabilityRepository struct {
	store *Store
}

func NewAvailabilityRepository(store *Store) *AvailabilityRepository {
	return &AvailabilityRepository{store: store}
}

func (r *AvailabilityRepository) InsertNights(ctx context.Context, rows []availability.Night) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, row := range rows {
		key := keyOfNight(row.RoomID, daterange.FormatDay(row.Day))
		if _, exists := s.nights[key]; exists {
			continue
		}
		row.Day = daterange.ToUTCDay(row.Day)
		s.nights[key] = row
		inserted++
	}
	return inserted, nil
}

func (r *AvailabilityRepository) InsertRates(ctx context.Context, rows []availability.Rate) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, row := range rows {
		key := keyOfRate(row.RoomTypeID, daterange.FormatDay(row.Day))
		if _, exists := s.rates[key]; exists {
			continue
		}
		row.Day = daterange.ToUTCDay(row.Day)
		s.rates[key] = row
		inserted++
	}
	return inserted, nil
}

func (r *AvailabilityRepository) AvailableNightCounts(ctx context.Context, rng daterange.DateRange) ([]availability.RoomNights, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[properties.RoomID]int)
	for key, night := range s.nights {
		if night.Status != availability.StatusAvailable || !inRange(rng, key.day) {
			continue
		}
		if !s.eligibleRoom(key.room) {
			continue
		}
		counts[key.room]++
	}
	out := make([]availability.RoomNights, 0, len(counts))
	for id, n := range counts {
		out = append(out, availability.RoomNights{RoomID: id, AvailableNights: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, nil
}

func (r *AvailabilityRepository) Nights(ctx context.Context, room properties.RoomID, rng daterange.DateRange) ([]availability.Night, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []availability.Night
	for _, day := range rng.Days() {
		if n, ok := s.nights[keyOfNight(room, daterange.FormatDay(day))]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// SetNightStatus updates existing rows only; days without a row stay absent.
func (r *AvailabilityRepository) SetNightStatus(ctx context.Context, room properties.RoomID, rng daterange.DateRange, status availability.Status) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	if _, err := availability.ParseStatus(string(status)); err != nil {
		return 0, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, day := range rng.Days() {
		key := keyOfNight(room, daterange.FormatDay(day))
		n, ok := s.nights[key]
		if !ok {
			continue
		}
		n.Status = status
		s.nights[key] = n
		updated++
	}
	return updated, nil
}

func (r *AvailabilityRepository) CountNights(ctx context.Context, room properties.RoomID) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for key := range r.store.nights {
		if key.room == room {
			n++
		}
	}
	return n, nil
}

func (r *AvailabilityRepository) CountRates(ctx context.Context, roomType properties.PropertyRoomTypeID) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for key := range r.store.rates {
		if key.roomType == roomType {
			n++
		}
	}
	return n, nil
}

var _ availability.Repository = (*AvailabilityRepository)(nil)
