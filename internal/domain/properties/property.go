package properties

import (
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/shared/events"
)

var (
	ErrNotFound         = errors.New("properties: not found")
	ErrTitleRequired    = errors.New("properties: title is required")
	ErrHostRequired     = errors.New("properties: host is required")
	ErrNegativeCapacity = errors.New("properties: occupancy and extra bed capacity must be non-negative integers")
	ErrNegativePrice    = errors.New("properties: base price must be non-negative")
	ErrInvalidStatus    = errors.New("properties: invalid status")
	ErrInvalidKind      = errors.New("properties: invalid vocabulary kind")
	ErrNameRequired     = errors.New("properties: name is required")
	ErrMediaURL         = errors.New("properties: media url is required")
)

type (
	PropertyID         string
	PropertyRoomTypeID string
	RoomID             string
	VocabularyID       string
	MediaID            string
	HostID             string
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus accepts active/inactive in any case.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", ErrInvalidStatus
}

type Location struct {
	Line1   string
	City    string
	Region  string
	Country string
	Lat     float64
	Lon     float64
}

type Property struct {
	ID          PropertyID
	Host        HostID
	Title       string
	Description string
	Status      Status
	Location    Location
	RoomTypeIDs []PropertyRoomTypeID
	FeatureIDs  []VocabularyID
	MediaIDs    []MediaID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	events.EventRecorder
}

// Searchable reports whether the property may appear in stay search.
func (p *Property) Searchable() bool {
	return p != nil && p.DeletedAt == nil && p.Status == StatusActive
}

// SoftDelete marks the property deleted; rows are never removed.
func (p *Property) SoftDelete(now time.Time) {
	if p.DeletedAt != nil {
		return
	}
	at := now.UTC()
	p.DeletedAt = &at
	p.UpdatedAt = at
	p.Record(PropertyDeleted{PropertyID: string(p.ID), At: at})
}

type CreatePropertyParams struct {
	ID          PropertyID
	Host        HostID
	Title       string
	Description string
	Status      Status
	Location    Location
	FeatureIDs  []VocabularyID
	Now         time.Time
}

func NewProperty(params CreatePropertyParams) (*Property, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusInactive {
		return nil, ErrInvalidStatus
	}
	now := params.Now.UTC()
	p := &Property{
		ID:          params.ID,
		Host:        params.Host,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Status:      status,
		Location:    params.Location,
		FeatureIDs:  dedupeVocabulary(params.FeatureIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Record(PropertyCreated{PropertyID: string(p.ID), HostID: string(p.Host), At: now})
	return p, nil
}

// PropertyRoomType is the property-scoped instance of a global room type.
type PropertyRoomType struct {
	ID               PropertyRoomTypeID
	PropertyID       PropertyID
	RoomTypeID       VocabularyID
	Name             string
	BasePriceCents   int64
	Occupancy        int
	ExtraBedCapacity int
	Status           Status
	RoomIDs          []RoomID
	DeletedAt        *time.Time
}

func (t *PropertyRoomType) Active() bool {
	return t != nil && t.DeletedAt == nil && t.Status == StatusActive
}

// BedsPerRoom is the sleeping capacity one room of this type adds.
func (t *PropertyRoomType) BedsPerRoom() int {
	if t == nil {
		return 0
	}
	return t.Occupancy + t.ExtraBedCapacity
}

type CreateRoomTypeParams struct {
	ID               PropertyRoomTypeID
	PropertyID       PropertyID
	RoomTypeID       VocabularyID
	Name             string
	BasePriceCents   int64
	Occupancy        int
	ExtraBedCapacity int
	Status           Status
}

func NewPropertyRoomType(params CreateRoomTypeParams) (*PropertyRoomType, error) {
	if params.Occupancy < 0 || params.ExtraBedCapacity < 0 {
		return nil, ErrNegativeCapacity
	}
	if params.BasePriceCents < 0 {
		return nil, ErrNegativePrice
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusInactive {
		return nil, ErrInvalidStatus
	}
	return &PropertyRoomType{
		ID:               params.ID,
		PropertyID:       params.PropertyID,
		RoomTypeID:       params.RoomTypeID,
		Name:             name,
		BasePriceCents:   params.BasePriceCents,
		Occupancy:        params.Occupancy,
		ExtraBedCapacity: params.ExtraBedCapacity,
		Status:           status,
	}, nil
}

// Room is one physical unit.
type Room struct {
	ID           RoomID
	RoomTypeID   PropertyRoomTypeID
	Name         string
	MaxOccupancy int
	Status       Status
	DeletedAt    *time.Time
}

func (r *Room) Active() bool {
	return r != nil && r.DeletedAt == nil && r.Status == StatusActive
}

type CreateRoomParams struct {
	ID           RoomID
	RoomTypeID   PropertyRoomTypeID
	Name         string
	MaxOccupancy int
	Status       Status
}

func NewRoom(params CreateRoomParams) (*Room, error) {
	if params.MaxOccupancy < 0 {
		return nil, ErrNegativeCapacity
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	status := params.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusInactive {
		return nil, ErrInvalidStatus
	}
	return &Room{
		ID:           params.ID,
		RoomTypeID:   params.RoomTypeID,
		Name:         name,
		MaxOccupancy: params.MaxOccupancy,
		Status:       status,
	}, nil
}

type Media struct {
	ID          MediaID
	PropertyID  PropertyID
	URL         string
	ContentType string
	Position    int
}

func NewMedia(id MediaID, property PropertyID, url, contentType string, position int) (*Media, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrMediaURL
	}
	return &Media{ID: id, PropertyID: property, URL: url, ContentType: contentType, Position: position}, nil
}

func dedupeVocabulary(ids []VocabularyID) []VocabularyID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[VocabularyID]struct{}, len(ids))
	out := make([]VocabularyID, 0, len(ids))
	for _, id := range ids {
		id = VocabularyID(strings.TrimSpace(string(id)))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
