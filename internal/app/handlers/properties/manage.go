package properties

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
)

const (
	setRoomStatusKey  = "properties.rooms.set_status"
	deletePropertyKey = "properties.delete"
	addMediaKey       = "properties.media.add"
)

// MediaUploader stores binary content and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

type SetRoomStatusCommand struct {
	RoomID string `validate:"required"`
	Status string `validate:"required,oneof=active inactive"`
}

func (c SetRoomStatusCommand) Key() string                { return setRoomStatusKey }
func (c SetRoomStatusCommand) RequiredRoles() []user.Role { return policies.HostRoles() }

type SetRoomStatusHandler struct {
	Logger *slog.Logger
}

func (h *SetRoomStatusHandler) Handle(ctx context.Context, cmd SetRoomStatusCommand) (*dto.Room, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	status, err := domainproperties.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	room, err := unit.Properties().RoomByID(ctx, domainproperties.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	owner, err := unit.Properties().OwnerOfRoomType(ctx, room.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if err := policies.EnsureOwner(ctx, owner); err != nil {
		return nil, err
	}
	if err := unit.Properties().SetRoomStatus(ctx, room.ID, status); err != nil {
		return nil, err
	}
	room.Status = status
	if h.Logger != nil {
		h.Logger.Info("room status changed", "room_id", room.ID, "status", status)
	}
	out := dto.MapRoom(room)
	return &out, nil
}

type DeletePropertyCommand struct {
	PropertyID string `validate:"required"`
}

func (c DeletePropertyCommand) Key() string                { return deletePropertyKey }
func (c DeletePropertyCommand) RequiredRoles() []user.Role { return policies.HostRoles() }

// DeletePropertyHandler soft-deletes a property; its rows stay for history.
type DeletePropertyHandler struct {
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *DeletePropertyHandler) Handle(ctx context.Context, cmd DeletePropertyCommand) (*dto.HostProperty, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	id := domainproperties.PropertyID(cmd.PropertyID)
	graph, err := unit.Properties().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, _ := graph.Property(id)
	if err := policies.EnsureOwner(ctx, prop); err != nil {
		return nil, err
	}
	prop.SoftDelete(now(h.Now))
	if err := unit.Properties().SoftDelete(ctx, prop.ID, *prop.DeletedAt); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, prop.PullEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("property deleted", "property_id", prop.ID)
	}
	list := dto.MapHostProperties([]*domainproperties.Property{prop})
	return &list.Items[0], nil
}

type AddMediaCommand struct {
	PropertyID  string `validate:"required"`
	FileName    string
	ContentType string
	Reader      io.Reader
}

func (c AddMediaCommand) Key() string                { return addMediaKey }
func (c AddMediaCommand) RequiredRoles() []user.Role { return policies.HostRoles() }

type AddMediaHandler struct {
	Uploader MediaUploader
	Logger   *slog.Logger
}

func (h *AddMediaHandler) Handle(ctx context.Context, cmd AddMediaCommand) (*dto.Media, error) {
	if h.Uploader == nil {
		return nil, ErrUploaderMissing
	}
	if cmd.Reader == nil {
		return nil, ErrMediaRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	id := domainproperties.PropertyID(cmd.PropertyID)
	graph, err := unit.Properties().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, _ := graph.Property(id)
	if err := policies.EnsureOwner(ctx, prop); err != nil {
		return nil, err
	}

	mediaID := domainproperties.MediaID(uuid.NewString())
	key := path.Join("properties", string(prop.ID), string(mediaID)+strings.ToLower(path.Ext(cmd.FileName)))
	url, err := h.Uploader.Upload(ctx, key, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	media, err := domainproperties.NewMedia(mediaID, prop.ID, url, cmd.ContentType, len(prop.MediaIDs))
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().AddMedia(ctx, media); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("property media added", "property_id", prop.ID, "media_id", media.ID)
	}
	out := dto.MapMedia([]*domainproperties.Media{media})[0]
	return &out, nil
}

var (
	_ commands.Handler[SetRoomStatusCommand, *dto.Room]          = (*SetRoomStatusHandler)(nil)
	_ commands.Handler[DeletePropertyCommand, *dto.HostProperty] = (*DeletePropertyHandler)(nil)
	_ commands.Handler[AddMediaCommand, *dto.Media]              = (*AddMediaHandler)(nil)
)
