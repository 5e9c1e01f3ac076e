package properties

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/handlers/support"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
)

const (
	createPropertyKey = "properties.create"
	addRoomTypeKey    = "properties.room_types.add"
	addRoomKey        = "properties.rooms.add"
)

type RoomPayload struct {
	Name         string `validate:"required"`
	MaxOccupancy int    `validate:"gte=0"`
	Status       string `validate:"omitempty,oneof=active inactive"`
}

type RoomTypePayload struct {
	RoomTypeID       string
	Name             string        `validate:"required"`
	BasePriceCents   int64         `validate:"gte=0"`
	Occupancy        int           `validate:"gte=0"`
	ExtraBedCapacity int           `validate:"gte=0"`
	Status           string        `validate:"omitempty,oneof=active inactive"`
	Rooms            []RoomPayload `validate:"dive"`
}

type PropertyPayload struct {
	Title       string `validate:"required"`
	Description string
	Status      string `validate:"omitempty,oneof=active inactive"`
	Location    domainproperties.Location
	FeatureIDs  []string
	RoomTypes   []RoomTypePayload `validate:"dive"`
}

// CreatePropertyCommand creates a property with its room types and rooms and
// seeds their calendars in the same unit of work.
type CreatePropertyCommand struct {
	HostID  string
	Payload PropertyPayload
	IdemKey string
}

func (c CreatePropertyCommand) Key() string                { return createPropertyKey }
func (c CreatePropertyCommand) RequiredRoles() []user.Role { return policies.HostRoles() }
func (c CreatePropertyCommand) IdempotencyKey() string     { return c.IdemKey }
func (c CreatePropertyCommand) ResultPrototype() any       { return &dto.PropertyDetail{} }

type CreatePropertyHandler struct {
	Seeding support.Seeding
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*dto.PropertyDetail, error) {
	if strings.TrimSpace(cmd.HostID) == "" {
		return nil, ErrHostRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	graph := domainproperties.NewGraph()
	features, err := resolveFeatures(ctx, unit, cmd.Payload.FeatureIDs)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		graph.AddVocabulary(f)
	}

	status, err := parseStatus(cmd.Payload.Status)
	if err != nil {
		return nil, err
	}
	prop, err := domainproperties.NewProperty(domainproperties.CreatePropertyParams{
		ID:          domainproperties.PropertyID(uuid.NewString()),
		Host:        domainproperties.HostID(cmd.HostID),
		Title:       cmd.Payload.Title,
		Description: cmd.Payload.Description,
		Status:      status,
		Location:    cmd.Payload.Location,
		FeatureIDs:  featureIDs(features),
		Now:         now(h.Now),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().CreateProperty(ctx, prop); err != nil {
		return nil, err
	}
	graph.AddProperty(prop)

	for _, payload := range cmd.Payload.RoomTypes {
		if _, err := addRoomType(ctx, unit, h.Seeding, graph, prop, payload, true); err != nil {
			return nil, err
		}
	}

	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, prop.PullEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("property created", "property_id", prop.ID, "host_id", prop.Host, "room_types", len(cmd.Payload.RoomTypes))
	}
	detail := dto.MapPropertyDetail(graph, prop)
	return &detail, nil
}

type AddRoomTypeCommand struct {
	PropertyID string `validate:"required"`
	Payload    RoomTypePayload
}

func (c AddRoomTypeCommand) Key() string                { return addRoomTypeKey }
func (c AddRoomTypeCommand) RequiredRoles() []user.Role { return policies.HostRoles() }

type AddRoomTypeHandler struct {
	Seeding support.Seeding
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *AddRoomTypeHandler) Handle(ctx context.Context, cmd AddRoomTypeCommand) (*dto.RoomType, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	graph, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	prop, _ := graph.Property(domainproperties.PropertyID(cmd.PropertyID))
	if err := policies.EnsureOwner(ctx, prop); err != nil {
		return nil, err
	}
	t, err := addRoomType(ctx, unit, h.Seeding, graph, prop, cmd.Payload, false)
	if err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, prop.PullEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room type added", "property_id", prop.ID, "room_type_id", t.ID)
	}
	out := dto.MapRoomType(t, graph.RoomsOf(t))
	return &out, nil
}

type AddRoomCommand struct {
	RoomTypeID string `validate:"required"`
	Payload    RoomPayload
}

func (c AddRoomCommand) Key() string                { return addRoomKey }
func (c AddRoomCommand) RequiredRoles() []user.Role { return policies.HostRoles() }

type AddRoomHandler struct {
	Seeding support.Seeding
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *AddRoomHandler) Handle(ctx context.Context, cmd AddRoomCommand) (*dto.Room, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	t, err := unit.Properties().RoomTypeByID(ctx, domainproperties.PropertyRoomTypeID(cmd.RoomTypeID))
	if err != nil {
		return nil, err
	}
	prop, err := unit.Properties().OwnerOfRoomType(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := policies.EnsureOwner(ctx, prop); err != nil {
		return nil, err
	}
	room, err := addRoom(ctx, unit, h.Seeding, nil, prop, t, cmd.Payload)
	if err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, prop.PullEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room added", "room_type_id", t.ID, "room_id", room.ID)
	}
	out := dto.MapRoom(room)
	return &out, nil
}

// addRoomType persists one room type with its rooms and seeds its rate
// calendar. withProperty selects the horizon used on property creation.
func addRoomType(ctx context.Context, unit uow.UnitOfWork, seeding support.Seeding, graph *domainproperties.Graph, prop *domainproperties.Property, payload RoomTypePayload, withProperty bool) (*domainproperties.PropertyRoomType, error) {
	vocabID, err := resolveRoomTypeVocabulary(ctx, unit, payload.RoomTypeID)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(payload.Status)
	if err != nil {
		return nil, err
	}
	t, err := domainproperties.NewPropertyRoomType(domainproperties.CreateRoomTypeParams{
		ID:               domainproperties.PropertyRoomTypeID(uuid.NewString()),
		PropertyID:       prop.ID,
		RoomTypeID:       vocabID,
		Name:             payload.Name,
		BasePriceCents:   payload.BasePriceCents,
		Occupancy:        payload.Occupancy,
		ExtraBedCapacity: payload.ExtraBedCapacity,
		Status:           status,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().CreateRoomType(ctx, t); err != nil {
		return nil, err
	}
	graph.AddRoomType(t)
	if withProperty {
		_, err = seeding.SeedPropertyRoomType(ctx, unit.Availability(), t)
	} else {
		_, err = seeding.SeedAddedRoomType(ctx, unit.Availability(), t)
	}
	if err != nil {
		return nil, err
	}
	prop.Record(domainproperties.RoomTypeCreated{
		PropertyID:     string(prop.ID),
		RoomTypeID:     string(t.ID),
		BasePriceCents: t.BasePriceCents,
		At:             time.Now().UTC(),
	})
	for _, rp := range payload.Rooms {
		if _, err := addRoom(ctx, unit, seeding, graph, prop, t, rp); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func addRoom(ctx context.Context, unit uow.UnitOfWork, seeding support.Seeding, graph *domainproperties.Graph, prop *domainproperties.Property, t *domainproperties.PropertyRoomType, payload RoomPayload) (*domainproperties.Room, error) {
	status, err := parseStatus(payload.Status)
	if err != nil {
		return nil, err
	}
	room, err := domainproperties.NewRoom(domainproperties.CreateRoomParams{
		ID:           domainproperties.RoomID(uuid.NewString()),
		RoomTypeID:   t.ID,
		Name:         payload.Name,
		MaxOccupancy: payload.MaxOccupancy,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	if graph != nil {
		graph.AddRoom(room)
	}
	if _, err := seeding.SeedRoom(ctx, unit.Availability(), room.ID); err != nil {
		return nil, err
	}
	prop.Record(domainproperties.RoomCreated{
		PropertyID: string(prop.ID),
		RoomTypeID: string(t.ID),
		RoomID:     string(room.ID),
		At:         time.Now().UTC(),
	})
	return room, nil
}

func resolveFeatures(ctx context.Context, unit uow.UnitOfWork, raw []string) ([]*domainproperties.VocabularyEntry, error) {
	ids := make([]domainproperties.VocabularyID, 0, len(raw))
	seen := make(map[domainproperties.VocabularyID]struct{}, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		vid := domainproperties.VocabularyID(id)
		if _, ok := seen[vid]; ok {
			continue
		}
		seen[vid] = struct{}{}
		ids = append(ids, vid)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	entries, err := unit.Vocabulary().ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(entries) != len(ids) {
		return nil, ErrUnknownFeature
	}
	for _, e := range entries {
		if e.Kind == domainproperties.KindRoomType {
			return nil, ErrUnknownFeature
		}
	}
	return entries, nil
}

func resolveRoomTypeVocabulary(ctx context.Context, unit uow.UnitOfWork, raw string) (domainproperties.VocabularyID, error) {
	id := domainproperties.VocabularyID(strings.TrimSpace(raw))
	if id == "" {
		return "", nil
	}
	entries, err := unit.Vocabulary().ByIDs(ctx, []domainproperties.VocabularyID{id})
	if err != nil {
		return "", err
	}
	if len(entries) != 1 || entries[0].Kind != domainproperties.KindRoomType {
		return "", ErrUnknownRoomType
	}
	return id, nil
}

func featureIDs(entries []*domainproperties.VocabularyEntry) []domainproperties.VocabularyID {
	out := make([]domainproperties.VocabularyID, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func parseStatus(raw string) (domainproperties.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return domainproperties.StatusActive, nil
	}
	return domainproperties.ParseStatus(raw)
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}

var (
	_ commands.Handler[CreatePropertyCommand, *dto.PropertyDetail] = (*CreatePropertyHandler)(nil)
	_ commands.Handler[AddRoomTypeCommand, *dto.RoomType]          = (*AddRoomTypeHandler)(nil)
	_ commands.Handler[AddRoomCommand, *dto.Room]                  = (*AddRoomHandler)(nil)
)
