package gormdb

import (
	"strings"
	"time"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/user"
)

type PropertyModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	HostID      string `gorm:"size:36;not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:16;not null;index"`
	Line1       string `gorm:"size:255"`
	City        string `gorm:"size:128;index"`
	Region      string `gorm:"size:128"`
	Country     string `gorm:"size:64"`
	Lat         float64
	Lon         float64
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time
	DeletedAt   *time.Time `gorm:"index"`
}

func (PropertyModel) TableName() string { return "properties" }

type PropertyFeatureModel struct {
	PropertyID   string `gorm:"primaryKey;size:36"`
	VocabularyID string `gorm:"primaryKey;size:64"`
	Position     int
}

func (PropertyFeatureModel) TableName() string { return "property_features" }

type RoomTypeModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	PropertyID       string `gorm:"size:36;not null;index"`
	RoomTypeID       string `gorm:"size:64"`
	Name             string `gorm:"size:255;not null"`
	BasePriceCents   int64  `gorm:"not null"`
	Occupancy        int    `gorm:"not null"`
	ExtraBedCapacity int    `gorm:"not null"`
	Status           string `gorm:"size:16;not null"`
	CreatedAt        time.Time
	DeletedAt        *time.Time
}

func (RoomTypeModel) TableName() string { return "property_room_types" }

type RoomModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	RoomTypeID   string `gorm:"size:36;not null;index"`
	Name         string `gorm:"size:255;not null"`
	MaxOccupancy int    `gorm:"not null"`
	Status       string `gorm:"size:16;not null"`
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

func (RoomModel) TableName() string { return "rooms" }

type MediaModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	PropertyID  string `gorm:"size:36;not null;index"`
	URL         string `gorm:"size:1024;not null"`
	ContentType string `gorm:"size:128"`
	Position    int
}

func (MediaModel) TableName() string { return "property_media" }

type VocabularyModel struct {
	ID   string `gorm:"primaryKey;size:64"`
	Kind string `gorm:"size:16;not null;index"`
	Name string `gorm:"size:255;not null"`
	Icon string `gorm:"size:255"`
}

func (VocabularyModel) TableName() string { return "vocabulary" }

// NightModel is one availability row. Days are stored as YYYY-MM-DD so the
// (room_id, day) key compares the same way on every driver.
type NightModel struct {
	RoomID    string `gorm:"primaryKey;size:36"`
	Day       string `gorm:"primaryKey;size:10;index"`
	Status    string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (NightModel) TableName() string { return "room_availability" }

type RateModel struct {
	RoomTypeID string `gorm:"primaryKey;size:36"`
	Day        string `gorm:"primaryKey;size:10"`
	PriceCents int64  `gorm:"not null"`
	IsOpen     bool   `gorm:"not null"`
	CreatedAt  time.Time
	DeletedAt  *time.Time
}

func (RateModel) TableName() string { return "rate_calendar" }

type UserModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	Name         string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Roles        string `gorm:"size:255;not null"`
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string { return "users" }

func propertyToModel(p *properties.Property) PropertyModel {
	return PropertyModel{
		ID:          string(p.ID),
		HostID:      string(p.Host),
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		Line1:       p.Location.Line1,
		City:        p.Location.City,
		Region:      p.Location.Region,
		Country:     p.Location.Country,
		Lat:         p.Location.Lat,
		Lon:         p.Location.Lon,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
}

func (m PropertyModel) toDomain(features []properties.VocabularyID) *properties.Property {
	return &properties.Property{
		ID:          properties.PropertyID(m.ID),
		Host:        properties.HostID(m.HostID),
		Title:       m.Title,
		Description: m.Description,
		Status:      properties.Status(m.Status),
		Location: properties.Location{
			Line1:   m.Line1,
			City:    m.City,
			Region:  m.Region,
			Country: m.Country,
			Lat:     m.Lat,
			Lon:     m.Lon,
		},
		FeatureIDs: features,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
		DeletedAt:  m.DeletedAt,
	}
}

func roomTypeToModel(t *properties.PropertyRoomType) RoomTypeModel {
	return RoomTypeModel{
		ID:               string(t.ID),
		PropertyID:       string(t.PropertyID),
		RoomTypeID:       string(t.RoomTypeID),
		Name:             t.Name,
		BasePriceCents:   t.BasePriceCents,
		Occupancy:        t.Occupancy,
		ExtraBedCapacity: t.ExtraBedCapacity,
		Status:           string(t.Status),
		DeletedAt:        t.DeletedAt,
	}
}

func (m RoomTypeModel) toDomain() *properties.PropertyRoomType {
	return &properties.PropertyRoomType{
		ID:               properties.PropertyRoomTypeID(m.ID),
		PropertyID:       properties.PropertyID(m.PropertyID),
		RoomTypeID:       properties.VocabularyID(m.RoomTypeID),
		Name:             m.Name,
		BasePriceCents:   m.BasePriceCents,
		Occupancy:        m.Occupancy,
		ExtraBedCapacity: m.ExtraBedCapacity,
		Status:           properties.Status(m.Status),
		DeletedAt:        m.DeletedAt,
	}
}

func roomToModel(r *properties.Room) RoomModel {
	return RoomModel{
		ID:           string(r.ID),
		RoomTypeID:   string(r.RoomTypeID),
		Name:         r.Name,
		MaxOccupancy: r.MaxOccupancy,
		Status:       string(r.Status),
		DeletedAt:    r.DeletedAt,
	}
}

func (m RoomModel) toDomain() *properties.Room {
	return &properties.Room{
		ID:           properties.RoomID(m.ID),
		RoomTypeID:   properties.PropertyRoomTypeID(m.RoomTypeID),
		Name:         m.Name,
		MaxOccupancy: m.MaxOccupancy,
		Status:       properties.Status(m.Status),
		DeletedAt:    m.DeletedAt,
	}
}

func (m MediaModel) toDomain() *properties.Media {
	return &properties.Media{
		ID:          properties.MediaID(m.ID),
		PropertyID:  properties.PropertyID(m.PropertyID),
		URL:         m.URL,
		ContentType: m.ContentType,
		Position:    m.Position,
	}
}

func (m VocabularyModel) toDomain() *properties.VocabularyEntry {
	return &properties.VocabularyEntry{
		ID:   properties.VocabularyID(m.ID),
		Kind: properties.Kind(m.Kind),
		Name: m.Name,
		Icon: m.Icon,
	}
}

func (m NightModel) toDomain() (availability.Night, error) {
	day, err := daterange.ParseDay(m.Day)
	if err != nil {
		return availability.Night{}, err
	}
	return availability.Night{
		RoomID: properties.RoomID(m.RoomID),
		Day:    day,
		Status: availability.Status(m.Status),
	}, nil
}

func userToModel(u *user.User) UserModel {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return UserModel{
		ID:           string(u.ID),
		Email:        user.NormalizeEmail(u.Email),
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Roles:        strings.Join(roles, ","),
		Blocked:      u.Blocked,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m UserModel) toDomain() *user.User {
	var roles []user.Role
	for _, raw := range strings.Split(m.Roles, ",") {
		if role, err := user.ParseRole(raw); err == nil {
			roles = append(roles, role)
		}
	}
	return &user.User{
		ID:           user.ID(m.ID),
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		Blocked:      m.Blocked,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}
