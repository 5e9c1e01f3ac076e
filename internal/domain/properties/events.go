package properties

import "time"

type PropertyCreated struct {
	PropertyID string    `json:"property_id"`
	HostID     string    `json:"host_id"`
	At         time.Time `json:"occurred_at"`
}

func (e PropertyCreated) EventName() string     { return "property.created" }
func (e PropertyCreated) AggregateID() string   { return e.PropertyID }
func (e PropertyCreated) OccurredAt() time.Time { return e.At }

type PropertyDeleted struct {
	PropertyID string    `json:"property_id"`
	At         time.Time `json:"occurred_at"`
}

func (e PropertyDeleted) EventName() string     { return "property.deleted" }
func (e PropertyDeleted) AggregateID() string   { return e.PropertyID }
func (e PropertyDeleted) OccurredAt() time.Time { return e.At }

type RoomTypeCreated struct {
	PropertyID     string    `json:"property_id"`
	RoomTypeID     string    `json:"room_type_id"`
	BasePriceCents int64     `json:"base_price_cents"`
	At             time.Time `json:"occurred_at"`
}

func (e RoomTypeCreated) EventName() string     { return "room_type.created" }
func (e RoomTypeCreated) AggregateID() string   { return e.PropertyID }
func (e RoomTypeCreated) OccurredAt() time.Time { return e.At }

type RoomCreated struct {
	PropertyID string    `json:"property_id"`
	RoomTypeID string    `json:"room_type_id"`
	RoomID     string    `json:"room_id"`
	At         time.Time `json:"occurred_at"`
}

func (e RoomCreated) EventName() string     { return "room.created" }
func (e RoomCreated) AggregateID() string   { return e.PropertyID }
func (e RoomCreated) OccurredAt() time.Time { return e.At }
