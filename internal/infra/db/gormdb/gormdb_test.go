package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/user"
)

var day0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

type fixture struct {
	property properties.PropertyID
	roomType properties.PropertyRoomTypeID
	rooms    []properties.RoomID
}

func createProperty(t *testing.T, db *gorm.DB, id string, rooms int, horizon int) fixture {
	t.Helper()
	ctx := context.Background()
	repo := NewPropertyRepository(db)
	avail := NewAvailabilityRepository(db)
	vocab := NewVocabularyRepository(db)

	pool, _ := properties.NewVocabularyEntry("pool", properties.KindAmenity, "Pool", "")
	if err := vocab.Save(ctx, pool); err != nil {
		t.Fatalf("save vocabulary: %v", err)
	}
	p, _ := properties.NewProperty(properties.CreatePropertyParams{
		ID: properties.PropertyID(id), Host: "host-1", Title: "Stay " + id, FeatureIDs: []properties.VocabularyID{"pool"}, Now: day0,
	})
	if err := repo.CreateProperty(ctx, p); err != nil {
		t.Fatalf("create property: %v", err)
	}
	rt, _ := properties.NewPropertyRoomType(properties.CreateRoomTypeParams{
		ID: properties.PropertyRoomTypeID(id + "-rt"), PropertyID: p.ID, Name: "Double", Occupancy: 2, ExtraBedCapacity: 1, BasePriceCents: 9000,
	})
	if err := repo.CreateRoomType(ctx, rt); err != nil {
		t.Fatalf("create room type: %v", err)
	}
	fx := fixture{property: p.ID, roomType: rt.ID}
	for i := 0; i < rooms; i++ {
		room, _ := properties.NewRoom(properties.CreateRoomParams{
			ID: properties.RoomID(fmt.Sprintf("%s-room-%d", id, i)), RoomTypeID: rt.ID, Name: fmt.Sprintf("Room %d", i),
		})
		if err := repo.CreateRoom(ctx, room); err != nil {
			t.Fatalf("create room: %v", err)
		}
		if _, err := (availability.Seeder{}).SeedAvailability(ctx, avail, room.ID, horizon, day0); err != nil {
			t.Fatalf("seed: %v", err)
		}
		fx.rooms = append(fx.rooms, room.ID)
	}
	return fx
}

func TestSeedingTwiceKeepsOneRowPerDay(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	factory := Factory{DB: db}
	seeder := availability.Seeder{BatchDays: 30}

	for i := 0; i < 2; i++ {
		err := uow.Within(ctx, factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
			report, err := seeder.SeedAvailability(ctx, unit.Availability(), "room-1", 90, day0)
			if err != nil {
				return err
			}
			if i == 1 && report.Inserted != 0 {
				return fmt.Errorf("second run inserted %d rows", report.Inserted)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}
	n, err := NewAvailabilityRepository(db).CountNights(ctx, "room-1")
	if err != nil || n != 90 {
		t.Fatalf("expected 90 rows, got %d (%v)", n, err)
	}
}

func TestCountRatesSkipsSoftDeletedRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAvailabilityRepository(db)

	report, err := (availability.Seeder{}).SeedRateCalendar(ctx, repo, "rt-1", 9000, 10, day0)
	if err != nil || report.Inserted != 10 {
		t.Fatalf("seed rates: %+v (%v)", report, err)
	}
	at := day0.Add(time.Hour)
	err = db.Model(&RateModel{}).
		Where("room_type_id = ? AND day < ?", "rt-1", daterange.FormatDay(daterange.AddUTCDays(day0, 3))).
		Update("deleted_at", &at).Error
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	n, err := repo.CountRates(ctx, "rt-1")
	if err != nil || n != 7 {
		t.Fatalf("expected 7 live rates, got %d (%v)", n, err)
	}
}

func TestAvailableNightCountsAppliesEligibility(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	live := createProperty(t, db, "p1", 2, 10)
	gone := createProperty(t, db, "p2", 1, 10)

	repo := NewPropertyRepository(db)
	if err := repo.SoftDelete(ctx, gone.property, day0); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	avail := NewAvailabilityRepository(db)
	blocked, _ := daterange.New(day0.AddDate(0, 0, 1), day0.AddDate(0, 0, 2))
	if n, err := avail.SetNightStatus(ctx, live.rooms[1], blocked, availability.StatusBlocked); err != nil || n != 1 {
		t.Fatalf("block night: %d %v", n, err)
	}

	r, _ := daterange.New(day0, day0.AddDate(0, 0, 3))
	got, err := availability.ResolveAvailableRoomIDs(ctx, avail, r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 1 || !got.Has(live.rooms[0]) {
		t.Fatalf("expected only %s, got %v", live.rooms[0], got.IDs())
	}

	beyond, _ := daterange.New(day0.AddDate(0, 0, 8), day0.AddDate(0, 0, 12))
	got, err = availability.ResolveAvailableRoomIDs(ctx, avail, beyond)
	if err != nil || len(got) != 0 {
		t.Fatalf("rooms past their horizon must be unavailable, got %v (%v)", got.IDs(), err)
	}
}

func TestByRoomIDsLoadsWholeProperty(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	fx := createProperty(t, db, "p1", 3, 5)
	createProperty(t, db, "p2", 1, 5)

	g, err := NewPropertyRepository(db).ByRoomIDs(ctx, fx.rooms[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := g.Properties()
	if len(props) != 1 || props[0].ID != fx.property {
		t.Fatalf("expected p1 only, got %d properties", len(props))
	}
	types := g.RoomTypesOf(props[0])
	if len(types) != 1 || len(g.RoomsOf(types[0])) != 3 {
		t.Fatalf("expected all three rooms of the room type")
	}
	if amenities := g.FeaturesOf(props[0], properties.KindAmenity); len(amenities) != 1 || amenities[0].Name != "Pool" {
		t.Fatalf("expected the pool amenity, got %v", amenities)
	}
}

func TestRollbackDiscardsRowsAndOutbox(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	factory := Factory{DB: db}
	boom := errors.New("boom")
	err := uow.Within(ctx, factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Availability().InsertNights(ctx, []availability.Night{{RoomID: "room-1", Day: day0, Status: availability.StatusAvailable}}); err != nil {
			return err
		}
		if err := unit.Outbox().Add(ctx, appoutbox.EventRecord{ID: "evt-1", Name: "property.created", Payload: []byte(`{}`), OccurredAt: day0}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n, _ := NewAvailabilityRepository(db).CountNights(ctx, "room-1"); n != 0 {
		t.Fatalf("rolled back rows persisted: %d", n)
	}
	var count int64
	db.Model(&OutboxModel{}).Count(&count)
	if count != 0 {
		t.Fatalf("rolled back outbox records persisted: %d", count)
	}
}

func TestOutboxClaimLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := day0
	store := NewOutboxStore(db)
	store.Now = func() time.Time { return now }

	if err := store.Add(ctx, appoutbox.EventRecord{ID: "evt-1", Name: "property.created", Payload: []byte(`{"a":1}`), OccurredAt: day0, Headers: map[string]string{"traceparent": "00-1"}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	rec, attempts, err := store.Claim(ctx, "worker-1")
	if err != nil || rec == nil || attempts != 0 || rec.Headers["traceparent"] != "00-1" {
		t.Fatalf("unexpected claim %+v %d %v", rec, attempts, err)
	}
	if again, _, _ := store.Claim(ctx, "worker-2"); again != nil {
		t.Fatalf("claimed record must not be handed out twice")
	}
	if err := store.MarkFailed(ctx, rec.ID, now.Add(time.Minute), "broker down"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if early, _, _ := store.Claim(ctx, "worker-1"); early != nil {
		t.Fatalf("record claimed before its retry time")
	}
	now = now.Add(2 * time.Minute)
	rec, attempts, err = store.Claim(ctx, "worker-1")
	if err != nil || rec == nil || attempts != 1 {
		t.Fatalf("expected retry with one attempt, got %+v %d %v", rec, attempts, err)
	}
	if err := store.MarkSent(ctx, rec.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	pruned, err := store.Prune(ctx, now.Add(time.Hour))
	if err != nil || pruned != 1 {
		t.Fatalf("expected one pruned record, got %d (%v)", pruned, err)
	}
}

func TestUserEmailIsUnique(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	a, _ := user.NewUser(user.CreateParams{ID: "u1", Email: "Host@Example.com", Name: "A", PasswordHash: "x"})
	b, _ := user.NewUser(user.CreateParams{ID: "u2", Email: "host@example.com", Name: "B", PasswordHash: "y"})
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, b); !errors.Is(err, user.ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
	got, err := repo.ByEmail(ctx, " HOST@example.com ")
	if err != nil || got.ID != "u1" || len(got.Roles) != 1 {
		t.Fatalf("unexpected lookup %+v %v", got, err)
	}
}
