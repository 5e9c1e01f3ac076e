package vocabulary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
)

const (
	createEntryKey = "vocabulary.create"
	listEntriesKey = "vocabulary.list"
)

// CreateEntryCommand adds an amenity, facility, safety item or room type
// to the shared vocabulary.
type CreateEntryCommand struct {
	Kind string `validate:"required,oneof=amenity facility safety room_type"`
	Name string `validate:"required,max=120"`
	Icon string `validate:"max=120"`
}

func (c CreateEntryCommand) Key() string                { return createEntryKey }
func (c CreateEntryCommand) RequiredRoles() []user.Role { return policies.AdminRoles() }

type CreateEntryHandler struct {
	Logger *slog.Logger
}

func (h *CreateEntryHandler) Handle(ctx context.Context, cmd CreateEntryCommand) (*dto.VocabularyEntry, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	kind, err := properties.ParseKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	entry, err := properties.NewVocabularyEntry(properties.VocabularyID(uuid.NewString()), kind, cmd.Name, cmd.Icon)
	if err != nil {
		return nil, err
	}
	if err := unit.Vocabulary().Save(ctx, entry); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("vocabulary entry created", "id", entry.ID, "kind", entry.Kind)
	}
	out := dto.MapVocabularyEntry(entry)
	return &out, nil
}

type ListEntriesQuery struct {
	Kind string `validate:"required,oneof=amenity facility safety room_type"`
}

func (q ListEntriesQuery) Key() string { return listEntriesKey }

type ListEntriesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListEntriesHandler) Handle(ctx context.Context, q ListEntriesQuery) ([]dto.VocabularyEntry, error) {
	kind, err := properties.ParseKind(q.Kind)
	if err != nil {
		return nil, err
	}
	unit, ctx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()
	entries, err := unit.Vocabulary().List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return dto.MapVocabulary(entries), nil
}

var (
	_ commands.Handler[CreateEntryCommand, *dto.VocabularyEntry] = (*CreateEntryHandler)(nil)
	_ queries.Handler[ListEntriesQuery, []dto.VocabularyEntry]   = (*ListEntriesHandler)(nil)
)
