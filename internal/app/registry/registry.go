// Package registry registers every command and query handler on the buses
// and wraps them with the middleware chain shared by the server and the CLI.
package registry

import (
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	availabilityapp "stayhub/internal/app/handlers/availability"
	propertiesapp "stayhub/internal/app/handlers/properties"
	searchapp "stayhub/internal/app/handlers/search"
	"stayhub/internal/app/handlers/support"
	vocabularyapp "stayhub/internal/app/handlers/vocabulary"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/availability"
)

type Deps struct {
	UoW         uow.UoWFactory
	Outbox      outbox.Outbox
	Idempotency middleware.IdempotencyStore
	Validator   middleware.Validator
	Uploader    propertiesapp.MediaUploader
	Seeding     support.Seeding
	Timeout     time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
	// CommandKeys and QueryKeys list what is registered, sorted.
	CommandKeys []string
	QueryKeys   []string
}

// Build panics on missing dependencies; wiring errors are programming errors.
func Build(d Deps) Buses {
	seeder := d.Seeding.Seeder
	if seeder.Now == nil {
		seeder.Now = d.Now
	}
	seeding := d.Seeding
	seeding.Seeder = seeder
	if seeding.Logger == nil {
		seeding.Logger = d.Logger
	}
	encoder := outbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, propertiesapp.CreatePropertyCommand{}.Key(), &propertiesapp.CreatePropertyHandler{
		Seeding: seeding, Encoder: encoder, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler(commandBus, propertiesapp.AddRoomTypeCommand{}.Key(), &propertiesapp.AddRoomTypeHandler{
		Seeding: seeding, Encoder: encoder, Logger: d.Logger,
	})
	commands.RegisterHandler(commandBus, propertiesapp.AddRoomCommand{}.Key(), &propertiesapp.AddRoomHandler{
		Seeding: seeding, Encoder: encoder, Logger: d.Logger,
	})
	commands.RegisterHandler(commandBus, propertiesapp.SetRoomStatusCommand{}.Key(), &propertiesapp.SetRoomStatusHandler{Logger: d.Logger})
	commands.RegisterHandler(commandBus, propertiesapp.DeletePropertyCommand{}.Key(), &propertiesapp.DeletePropertyHandler{
		Encoder: encoder, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler(commandBus, propertiesapp.AddMediaCommand{}.Key(), &propertiesapp.AddMediaHandler{
		Uploader: d.Uploader, Logger: d.Logger,
	})
	commands.RegisterHandler(commandBus, availabilityapp.SetNightStatusCommand{}.Key(), &availabilityapp.SetNightStatusHandler{Logger: d.Logger})
	commands.RegisterHandler(commandBus, vocabularyapp.CreateEntryCommand{}.Key(), &vocabularyapp.CreateEntryHandler{Logger: d.Logger})

	reseed := &availabilityapp.ReseedHandler{
		UoWFactory:       d.UoW,
		Seeder:           seeder,
		AvailabilityDays: seeding.AvailabilityDays,
		RateDays:         seeding.RoomTypeRateDays,
		Logger:           d.Logger,
	}
	commands.RegisterHandler(commandBus, availabilityapp.ReseedRoomCommand{}.Key(), reseed.Room())
	commands.RegisterHandler(commandBus, availabilityapp.ReseedRoomTypeCommand{}.Key(), reseed.RoomType())

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, searchapp.SearchStaysQuery{}.Key(), &searchapp.SearchStaysHandler{
		UoWFactory: d.UoW, Logger: d.Logger, Now: d.Now,
	})
	queries.RegisterHandler(queryBus, propertiesapp.GetPropertyQuery{}.Key(), &propertiesapp.GetPropertyHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, propertiesapp.ListHostPropertiesQuery{}.Key(), &propertiesapp.ListHostPropertiesHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, vocabularyapp.ListEntriesQuery{}.Key(), &vocabularyapp.ListEntriesHandler{UoWFactory: d.UoW})
	queries.RegisterHandler(queryBus, availabilityapp.RoomCalendarQuery{}.Key(), &availabilityapp.RoomCalendarHandler{UoWFactory: d.UoW, Now: d.Now})

	commandChain := []middleware.CommandMiddleware{middleware.Timeout(d.Timeout)}
	queryChain := []middleware.QueryMiddleware{middleware.QueryTimeout(d.Timeout)}
	if d.Validator != nil {
		commandChain = append(commandChain, middleware.Validation(d.Validator))
		queryChain = append(queryChain, middleware.QueryValidation(d.Validator))
	}
	commandChain = append(commandChain, middleware.Authorization(policies.RoleAccess{}))
	queryChain = append(queryChain, middleware.QueryAuthorization(policies.RoleAccess{}))
	if d.Idempotency != nil {
		commandChain = append(commandChain, middleware.Idempotency(d.Idempotency, nil))
	}
	if d.Outbox != nil {
		commandChain = append(commandChain, middleware.OutboxFlush(d.Outbox, d.Logger))
	}
	commandChain = append(commandChain, middleware.Transaction(d.UoW, nil))

	buses := Buses{
		Commands:    middleware.ChainCommands(commandBus, commandChain...),
		Queries:     middleware.ChainQueries(queryBus, queryChain...),
		CommandKeys: commandBus.Keys(),
		QueryKeys:   queryBus.Keys(),
	}
	if d.Logger != nil {
		d.Logger.Debug("buses built", "commands", buses.CommandKeys, "queries", buses.QueryKeys)
	}
	return buses
}

// DefaultSeeding applies the configured horizons, falling back to the
// domain defaults for zero values.
func DefaultSeeding(availabilityDays, propertyRateDays, roomTypeRateDays, batchDays int, logger *slog.Logger) support.Seeding {
	return support.Seeding{
		Seeder:           availability.Seeder{BatchDays: batchDays},
		AvailabilityDays: availabilityDays,
		PropertyRateDays: propertyRateDays,
		RoomTypeRateDays: roomTypeRateDays,
		Logger:           logger,
	}
}
