package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

var day0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func seedProperty(t *testing.T, store *Store, id string, rooms int) []properties.RoomID {
	t.Helper()
	ctx := context.Background()
	repo := NewPropertyRepository(store)
	avail := NewAvailabilityRepository(store)
	p, err := properties.NewProperty(properties.CreatePropertyParams{
		ID: properties.PropertyID(id), Host: "host-1", Title: "Stay " + id, Now: day0,
	})
	if err != nil {
		t.Fatalf("new property: %v", err)
	}
	if err := repo.CreateProperty(ctx, p); err != nil {
		t.Fatalf("create property: %v", err)
	}
	rt, _ := properties.NewPropertyRoomType(properties.CreateRoomTypeParams{
		ID: properties.PropertyRoomTypeID(id + "-rt"), PropertyID: p.ID, Name: "Double", Occupancy: 2, ExtraBedCapacity: 1,
	})
	if err := repo.CreateRoomType(ctx, rt); err != nil {
		t.Fatalf("create room type: %v", err)
	}
	var ids []properties.RoomID
	for i := 0; i < rooms; i++ {
		room, _ := properties.NewRoom(properties.CreateRoomParams{
			ID: properties.RoomID(id + "-room-" + string(rune('a'+i))), RoomTypeID: rt.ID, Name: "Room",
		})
		if err := repo.CreateRoom(ctx, room); err != nil {
			t.Fatalf("create room: %v", err)
		}
		if _, err := (availability.Seeder{}).SeedAvailability(ctx, avail, room.ID, 10, day0); err != nil {
			t.Fatalf("seed: %v", err)
		}
		ids = append(ids, room.ID)
	}
	return ids
}

func TestAvailableNightCountsSkipsIneligibleRooms(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	active := seedProperty(t, store, "p1", 2)
	deleted := seedProperty(t, store, "p2", 1)

	repo := NewPropertyRepository(store)
	if err := repo.SoftDelete(ctx, "p2", day0); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := repo.SetRoomStatus(ctx, active[1], properties.StatusInactive); err != nil {
		t.Fatalf("set status: %v", err)
	}

	r, _ := daterange.New(day0, day0.AddDate(0, 0, 3))
	counts, err := NewAvailabilityRepository(store).AvailableNightCounts(ctx, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 1 || counts[0].RoomID != active[0] || counts[0].AvailableNights != 3 {
		t.Fatalf("unexpected counts %+v (deleted room %s)", counts, deleted[0])
	}
}

func TestByRoomIDsBuildsFullGraph(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rooms := seedProperty(t, store, "p1", 2)
	seedProperty(t, store, "p2", 1)

	g, err := NewPropertyRepository(store).ByRoomIDs(ctx, rooms[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := g.Properties()
	if len(props) != 1 || props[0].ID != "p1" {
		t.Fatalf("expected only p1, got %d properties", len(props))
	}
	types := g.RoomTypesOf(props[0])
	if len(types) != 1 || len(g.RoomsOf(types[0])) != 2 {
		t.Fatalf("expected the whole property with both rooms")
	}

	props[0].Title = "mutated"
	again, _ := NewPropertyRepository(store).ByID(ctx, "p1")
	if p, _ := again.Property("p1"); p.Title == "mutated" {
		t.Fatalf("repository leaked internal state")
	}
}

func TestInsertNightsSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewAvailabilityRepository(store)
	seeder := availability.Seeder{}
	for i := 0; i < 2; i++ {
		if _, err := seeder.SeedAvailability(ctx, repo, "room-1", 90, day0); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	n, err := repo.CountNights(ctx, "room-1")
	if err != nil || n != 90 {
		t.Fatalf("expected 90 rows, got %d (%v)", n, err)
	}
}

func TestSetNightStatusOnlyTouchesExistingRows(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewAvailabilityRepository(store)
	if _, err := (availability.Seeder{}).SeedAvailability(ctx, repo, "room-1", 3, day0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r, _ := daterange.New(day0.AddDate(0, 0, 1), day0.AddDate(0, 0, 6))
	updated, err := repo.SetNightStatus(ctx, "room-1", r, availability.StatusBlocked)
	if err != nil || updated != 2 {
		t.Fatalf("expected 2 updated rows, got %d (%v)", updated, err)
	}
	if n, _ := repo.CountNights(ctx, "room-1"); n != 3 {
		t.Fatalf("blocking must not create rows, got %d", n)
	}
}

func TestUnitPublishesOutboxOnCommitOnly(t *testing.T) {
	ctx := context.Background()
	box := NewOutbox(nil)
	factory := NewFactory(NewStore(), box)

	err := uow.Within(ctx, factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		if err := unit.Outbox().Add(ctx, appoutbox.EventRecord{ID: "1"}); err != nil {
			return err
		}
		return errors.New("fail")
	})
	if err == nil || len(box.Pending()) != 0 {
		t.Fatalf("rolled back unit must not publish, pending=%d", len(box.Pending()))
	}

	err = uow.Within(ctx, factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Outbox().Add(ctx, appoutbox.EventRecord{ID: "2"})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(box.Pending()) != 1 {
		t.Fatalf("expected one pending record, got %d", len(box.Pending()))
	}
	if err := box.Flush(ctx); err != nil || len(box.Delivered()) != 1 {
		t.Fatalf("flush failed: %v", err)
	}
}

func TestRepositoriesHonourCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _ := daterange.New(day0, day0.AddDate(0, 0, 1))
	if _, err := NewAvailabilityRepository(NewStore()).AvailableNightCounts(ctx, r); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSessionStorePurgesExpired(t *testing.T) {
	now := day0
	store := NewSessionStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()
	if err := store.Save(ctx, sessionAt("t1", day0, time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, sessionAt("t2", day0, 3*time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}
	now = day0.Add(2 * time.Hour)
	if _, err := store.Get(ctx, "t1"); err == nil {
		t.Fatalf("expired session must not resolve")
	}
	purged, _ := store.PurgeExpired(ctx)
	if purged != 1 {
		t.Fatalf("expected 1 purged session, got %d", purged)
	}
}

func sessionAt(token string, at time.Time, ttl time.Duration) *domainauth.Session {
	s, _ := domainauth.NewSession(domainauth.CreateSessionParams{Token: domainauth.Token(token), UserID: "u1", TTL: ttl, Now: at})
	return s
}

func TestIdempotencyRecordsExpireAfterTTL(t *testing.T) {
	now := day0
	store := NewIdempotencyStore()
	store.TTL = time.Hour
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Save(ctx, middleware.IdempotencyRecord{Key: "k", Payload: []byte(`"first"`)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, middleware.IdempotencyRecord{Key: "k", Payload: []byte(`"second"`)}); err != nil {
		t.Fatalf("duplicate save: %v", err)
	}
	rec, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(rec.Payload) != `"first"` {
		t.Fatalf("first result must win, got %s", rec.Payload)
	}

	now = now.Add(time.Hour)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("record should have expired")
	}
}
