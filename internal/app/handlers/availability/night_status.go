package availability

import (
	"context"
	"log/slog"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainavailability "stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/user"
)

const setNightStatusKey = "availability.nights.set_status"

// SetNightStatusCommand blocks or reopens seeded nights of a room. Nights
// outside the seeded horizon are left untouched.
type SetNightStatusCommand struct {
	RoomID string `validate:"required"`
	From   string `validate:"required"`
	To     string `validate:"required"`
	Status string `validate:"required,oneof=available blocked booked"`
}

func (c SetNightStatusCommand) Key() string { return setNightStatusKey }

func (c SetNightStatusCommand) RequiredRoles() []user.Role { return policies.HostRoles() }

type SetNightStatusHandler struct {
	Logger *slog.Logger
}

func (h *SetNightStatusHandler) Handle(ctx context.Context, cmd SetNightStatusCommand) (*dto.NightStatusUpdate, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	window, err := daterange.Parse(cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}
	status, err := domainavailability.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	room, err := unit.Properties().RoomByID(ctx, properties.RoomID(cmd.RoomID))
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
	updated, err := unit.Availability().SetNightStatus(ctx, room.ID, window, status)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("night status updated", "room_id", room.ID, "status", status, "nights", updated)
	}
	return &dto.NightStatusUpdate{
		RoomID:  string(room.ID),
		From:    daterange.FormatDay(window.CheckIn),
		To:      daterange.FormatDay(window.CheckOut),
		Status:  string(status),
		Updated: updated,
	}, nil
}

var _ commands.Handler[SetNightStatusCommand, *dto.NightStatusUpdate] = (*SetNightStatusHandler)(nil)
