package properties

import (
	"context"
	"time"
)

// Repository persists properties and their nested room types, rooms and media.
type Repository interface {
	CreateProperty(ctx context.Context, p *Property) error
	CreateRoomType(ctx context.Context, t *PropertyRoomType) error
	CreateRoom(ctx context.Context, r *Room) error
	AddMedia(ctx context.Context, m *Media) error

	// ByID loads one non-deleted property with everything it owns.
	ByID(ctx context.Context, id PropertyID) (*Graph, error)
	// ByRoomIDs loads the searchable properties owning any of the rooms,
	// with all of their room types, rooms, features and media.
	ByRoomIDs(ctx context.Context, ids []RoomID) (*Graph, error)
	ListByHost(ctx context.Context, host HostID) ([]*Property, error)

	RoomTypeByID(ctx context.Context, id PropertyRoomTypeID) (*PropertyRoomType, error)
	RoomByID(ctx context.Context, id RoomID) (*Room, error)
	// OwnerOfRoomType returns the property owning a room type.
	OwnerOfRoomType(ctx context.Context, id PropertyRoomTypeID) (*Property, error)

	SoftDelete(ctx context.Context, id PropertyID, at time.Time) error
	SetRoomStatus(ctx context.Context, id RoomID, status Status) error
}

type VocabularyRepository interface {
	Save(ctx context.Context, e *VocabularyEntry) error
	List(ctx context.Context, kind Kind) ([]*VocabularyEntry, error)
	ByIDs(ctx context.Context, ids []VocabularyID) ([]*VocabularyEntry, error)
}
