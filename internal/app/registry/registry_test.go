package registry

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	"stayhub/internal/app/policies"
	domainauth "stayhub/internal/domain/auth"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/validation"
)

func buildMemory(t *testing.T) Buses {
	t.Helper()
	box := memory.NewOutbox(nil)
	return Build(Deps{
		UoW:         memory.NewFactory(memory.NewStore(), box),
		Outbox:      box,
		Idempotency: memory.NewIdempotencyStore(),
		Validator:   validation.New(),
		Seeding:     DefaultSeeding(90, 365, 180, 30, nil),
		Timeout:     time.Second,
		Now:         func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestBuildRegistersEveryHandler(t *testing.T) {
	b := buildMemory(t)

	wantCommands := []string{
		"availability.nights.set_status",
		"availability.room_types.reseed",
		"availability.rooms.reseed",
		"properties.create",
		"properties.delete",
		"properties.media.add",
		"properties.room_types.add",
		"properties.rooms.add",
		"properties.rooms.set_status",
		"vocabulary.create",
	}
	wantQueries := []string{
		"availability.room_calendar",
		"properties.get",
		"properties.host.list",
		"search.stays",
		"vocabulary.list",
	}
	sort.Strings(wantCommands)
	sort.Strings(wantQueries)
	assertKeys(t, "commands", b.CommandKeys, wantCommands)
	assertKeys(t, "queries", b.QueryKeys, wantQueries)
}

func assertKeys(t *testing.T, kind string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", kind, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", kind, got, want)
		}
	}
}

func TestReseedRequiresAdmin(t *testing.T) {
	b := buildMemory(t)
	cmd := availabilityapp.ReseedRoomCommand{RoomID: "room-1"}

	_, err := commands.Dispatch[availabilityapp.ReseedRoomCommand, *dto.SeedReport](context.Background(), b.Commands, cmd)
	if !errors.Is(err, policies.ErrUnauthenticated) {
		t.Fatalf("anonymous: expected ErrUnauthenticated, got %v", err)
	}

	hostCtx := domainauth.ContextWithPrincipal(context.Background(), domainauth.Principal{UserID: "h", Roles: []user.Role{user.RoleHost}})
	_, err = commands.Dispatch[availabilityapp.ReseedRoomCommand, *dto.SeedReport](hostCtx, b.Commands, cmd)
	if !errors.Is(err, policies.ErrForbidden) {
		t.Fatalf("host: expected ErrForbidden, got %v", err)
	}

	adminCtx := domainauth.ContextWithPrincipal(context.Background(), domainauth.Principal{UserID: "a", Roles: []user.Role{user.RoleAdmin}})
	_, err = commands.Dispatch[availabilityapp.ReseedRoomCommand, *dto.SeedReport](adminCtx, b.Commands, cmd)
	if !errors.Is(err, properties.ErrNotFound) {
		t.Fatalf("admin on unknown room: expected ErrNotFound, got %v", err)
	}
}

func TestValidationRunsBeforeAuthorization(t *testing.T) {
	b := buildMemory(t)
	_, err := commands.Dispatch[availabilityapp.ReseedRoomCommand, *dto.SeedReport](context.Background(), b.Commands, availabilityapp.ReseedRoomCommand{})
	if err == nil || errors.Is(err, policies.ErrUnauthenticated) {
		t.Fatalf("missing room id should fail validation first, got %v", err)
	}
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
