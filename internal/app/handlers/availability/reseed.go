package availability

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainavailability "stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/user"
)

const (
	reseedRoomKey     = "availability.rooms.reseed"
	reseedRoomTypeKey = "availability.room_types.reseed"
)

// ReseedRoomCommand extends or repairs a room's availability horizon.
// Each batch commits on its own, so a long horizon never holds one large
// transaction and a retry resumes where the last run stopped.
type ReseedRoomCommand struct {
	RoomID string `validate:"required"`
	Days   int    `validate:"gte=0,lte=730"`
	From   string
}

func (c ReseedRoomCommand) Key() string                { return reseedRoomKey }
func (c ReseedRoomCommand) RequiredRoles() []user.Role { return policies.AdminRoles() }
func (c ReseedRoomCommand) ManagesTransactions() bool  { return true }

type ReseedRoomTypeCommand struct {
	RoomTypeID string `validate:"required"`
	Days       int    `validate:"gte=0,lte=730"`
	From       string
}

func (c ReseedRoomTypeCommand) Key() string                { return reseedRoomTypeKey }
func (c ReseedRoomTypeCommand) RequiredRoles() []user.Role { return policies.AdminRoles() }
func (c ReseedRoomTypeCommand) ManagesTransactions() bool  { return true }

type ReseedHandler struct {
	UoWFactory       uow.UoWFactory
	Seeder           domainavailability.Seeder
	AvailabilityDays int
	RateDays         int
	Logger           *slog.Logger
}

func (h *ReseedHandler) HandleRoom(ctx context.Context, cmd ReseedRoomCommand) (*dto.SeedReport, error) {
	from, err := parseOptionalDay(cmd.From)
	if err != nil {
		return nil, err
	}
	var room *properties.Room
	err = h.read(ctx, func(ctx context.Context, unit uow.UnitOfWork) error {
		var err error
		room, err = unit.Properties().RoomByID(ctx, properties.RoomID(cmd.RoomID))
		return err
	})
	if err != nil {
		return nil, err
	}
	days := pick(cmd.Days, h.AvailabilityDays, domainavailability.DefaultAvailabilityHorizonDays)
	report, err := h.Seeder.SeedAvailability(ctx, BatchCommitWriter{Factory: h.UoWFactory}, room.ID, days, from)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room reseeded", "room_id", room.ID, "inserted", report.Inserted, "skipped", report.Skipped, "batches", report.Batches)
	}
	out := dto.MapSeedReport(string(room.ID), report)
	return &out, nil
}

func (h *ReseedHandler) HandleRoomType(ctx context.Context, cmd ReseedRoomTypeCommand) (*dto.SeedReport, error) {
	from, err := parseOptionalDay(cmd.From)
	if err != nil {
		return nil, err
	}
	var roomType *properties.PropertyRoomType
	err = h.read(ctx, func(ctx context.Context, unit uow.UnitOfWork) error {
		var err error
		roomType, err = unit.Properties().RoomTypeByID(ctx, properties.PropertyRoomTypeID(cmd.RoomTypeID))
		return err
	})
	if err != nil {
		return nil, err
	}
	days := pick(cmd.Days, h.RateDays, domainavailability.DefaultRoomTypeRateHorizonDays)
	report, err := h.Seeder.SeedRateCalendar(ctx, BatchCommitWriter{Factory: h.UoWFactory}, roomType.ID, roomType.BasePriceCents, days, from)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room type reseeded", "room_type_id", roomType.ID, "inserted", report.Inserted, "skipped", report.Skipped, "batches", report.Batches)
	}
	out := dto.MapSeedReport(string(roomType.ID), report)
	return &out, nil
}

func (h *ReseedHandler) read(ctx context.Context, fn func(context.Context, uow.UnitOfWork) error) error {
	unit, ctx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, unit)
}

// Room adapts HandleRoom to the command bus.
func (h *ReseedHandler) Room() commands.Handler[ReseedRoomCommand, *dto.SeedReport] {
	return commands.HandlerFunc[ReseedRoomCommand, *dto.SeedReport](h.HandleRoom)
}

func (h *ReseedHandler) RoomType() commands.Handler[ReseedRoomTypeCommand, *dto.SeedReport] {
	return commands.HandlerFunc[ReseedRoomTypeCommand, *dto.SeedReport](h.HandleRoomType)
}

// BatchCommitWriter writes every batch in its own unit of work.
type BatchCommitWriter struct {
	Factory uow.UoWFactory
}

func (w BatchCommitWriter) InsertNights(ctx context.Context, rows []domainavailability.Night) (int, error) {
	var inserted int
	err := uow.Within(ctx, w.Factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		var err error
		inserted, err = unit.Availability().InsertNights(ctx, rows)
		return err
	})
	return inserted, err
}

func (w BatchCommitWriter) InsertRates(ctx context.Context, rows []domainavailability.Rate) (int, error) {
	var inserted int
	err := uow.Within(ctx, w.Factory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		var err error
		inserted, err = unit.Availability().InsertRates(ctx, rows)
		return err
	})
	return inserted, err
}

func parseOptionalDay(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return daterange.ParseDay(raw)
}

func pick(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
