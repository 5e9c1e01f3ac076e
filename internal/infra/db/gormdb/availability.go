package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

// insertChunk bounds rows per INSERT statement, well under driver
// placeholder limits.
const insertChunk = 200

// AvailabilityRepository implements availability.Repository with GORM.
type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// InsertNights inserts rows and silently skips existing (room_id, day) keys.
func (r *AvailabilityRepository) InsertNights(ctx context.Context, rows []availability.Night) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	models := make([]NightModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, NightModel{
			RoomID: string(row.RoomID),
			Day:    daterange.FormatDay(row.Day),
			Status: string(row.Status),
		})
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&models, insertChunk)
	if res.Error != nil {
		return 0, wrap("insert nights", res.Error)
	}
	return int(res.RowsAffected), nil
}

// InsertRates inserts rows and silently skips existing (room_type_id, day) keys.
func (r *AvailabilityRepository) InsertRates(ctx context.Context, rows []availability.Rate) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	models := make([]RateModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, RateModel{
			RoomTypeID: string(row.RoomTypeID),
			Day:        daterange.FormatDay(row.Day),
			PriceCents: row.PriceCents,
			IsOpen:     row.IsOpen,
		})
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&models, insertChunk)
	if res.Error != nil {
		return 0, wrap("insert rates", res.Error)
	}
	return int(res.RowsAffected), nil
}

type roomNightsRow struct {
	RoomID          string
	AvailableNights int
}

// AvailableNightCounts counts available rows per eligible room in one
// grouped query over rooms, room types and properties.
func (r *AvailabilityRepository) AvailableNightCounts(ctx context.Context, rng daterange.DateRange) ([]availability.RoomNights, error) {
	active := string(properties.StatusActive)
	var rows []roomNightsRow
	err := r.db.WithContext(ctx).
		Table("room_availability AS a").
		Select("a.room_id AS room_id, COUNT(*) AS available_nights").
		Joins("JOIN rooms r ON r.id = a.room_id").
		Joins("JOIN property_room_types t ON t.id = r.room_type_id").
		Joins("JOIN properties p ON p.id = t.property_id").
		Where("a.day >= ? AND a.day < ?", daterange.FormatDay(rng.CheckIn), daterange.FormatDay(rng.CheckOut)).
		Where("a.status = ? AND a.deleted_at IS NULL", string(availability.StatusAvailable)).
		Where("r.status = ? AND r.deleted_at IS NULL", active).
		Where("t.status = ? AND t.deleted_at IS NULL", active).
		Where("p.status = ? AND p.deleted_at IS NULL", active).
		Group("a.room_id").
		Order("a.room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("count available nights", err)
	}
	out := make([]availability.RoomNights, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.RoomNights{RoomID: properties.RoomID(row.RoomID), AvailableNights: row.AvailableNights})
	}
	return out, nil
}

func (r *AvailabilityRepository) Nights(ctx context.Context, room properties.RoomID, rng daterange.DateRange) ([]availability.Night, error) {
	var models []NightModel
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND day >= ? AND day < ? AND deleted_at IS NULL", string(room), daterange.FormatDay(rng.CheckIn), daterange.FormatDay(rng.CheckOut)).
		Order("day").
		Find(&models).Error
	if err != nil {
		return nil, wrap("list nights", err)
	}
	out := make([]availability.Night, 0, len(models))
	for _, m := range models {
		n, err := m.toDomain()
		if err != nil {
			return nil, wrap("decode night", err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *AvailabilityRepository) SetNightStatus(ctx context.Context, room properties.RoomID, rng daterange.DateRange, status availability.Status) (int, error) {
	if _, err := availability.ParseStatus(string(status)); err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Model(&NightModel{}).
		Where("room_id = ? AND day >= ? AND day < ? AND deleted_at IS NULL", string(room), daterange.FormatDay(rng.CheckIn), daterange.FormatDay(rng.CheckOut)).
		Update("status", string(status))
	if res.Error != nil {
		return 0, wrap("set night status", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *AvailabilityRepository) CountNights(ctx context.Context, room properties.RoomID) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&NightModel{}).Where("room_id = ? AND deleted_at IS NULL", string(room)).Count(&n).Error
	return int(n), wrap("count nights", err)
}

func (r *AvailabilityRepository) CountRates(ctx context.Context, roomType properties.PropertyRoomTypeID) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&RateModel{}).Where("room_type_id = ? AND deleted_at IS NULL", string(roomType)).Count(&n).Error
	return int(n), wrap("count rates", err)
}

var _ availability.Repository = (*AvailabilityRepository)(nil)
