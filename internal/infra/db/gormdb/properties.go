package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stayhub/internal/domain/properties"
)

// PropertyRepository implements properties.Repository with GORM.
type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) CreateProperty(ctx context.Context, p *properties.Property) error {
	model := propertyToModel(p)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if len(p.FeatureIDs) == 0 {
			return nil
		}
		features := make([]PropertyFeatureModel, 0, len(p.FeatureIDs))
		for i, id := range p.FeatureIDs {
			features = append(features, PropertyFeatureModel{PropertyID: model.ID, VocabularyID: string(id), Position: i})
		}
		return tx.Create(&features).Error
	})
	return wrap("create property", err)
}

func (r *PropertyRepository) CreateRoomType(ctx context.Context, t *properties.PropertyRoomType) error {
	if err := r.requireProperty(ctx, t.PropertyID); err != nil {
		return err
	}
	model := roomTypeToModel(t)
	return wrap("create room type", r.db.WithContext(ctx).Create(&model).Error)
}

func (r *PropertyRepository) CreateRoom(ctx context.Context, room *properties.Room) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RoomTypeModel{}).Where("id = ?", string(room.RoomTypeID)).Count(&count).Error; err != nil {
		return wrap("create room", err)
	}
	if count == 0 {
		return properties.ErrNotFound
	}
	model := roomToModel(room)
	return wrap("create room", r.db.WithContext(ctx).Create(&model).Error)
}

func (r *PropertyRepository) AddMedia(ctx context.Context, m *properties.Media) error {
	if err := r.requireProperty(ctx, m.PropertyID); err != nil {
		return err
	}
	model := MediaModel{
		ID:          string(m.ID),
		PropertyID:  string(m.PropertyID),
		URL:         m.URL,
		ContentType: m.ContentType,
		Position:    m.Position,
	}
	return wrap("add media", r.db.WithContext(ctx).Create(&model).Error)
}

func (r *PropertyRepository) ByID(ctx context.Context, id properties.PropertyID) (*properties.Graph, error) {
	var model PropertyModel
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", string(id)).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, properties.ErrNotFound
	}
	if err != nil {
		return nil, wrap("load property", err)
	}
	return r.loadGraph(ctx, []PropertyModel{model})
}

func (r *PropertyRepository) ByRoomIDs(ctx context.Context, ids []properties.RoomID) (*properties.Graph, error) {
	if len(ids) == 0 {
		return properties.NewGraph(), nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	owners := r.db.Model(&RoomTypeModel{}).
		Select("property_room_types.property_id").
		Joins("JOIN rooms ON rooms.room_type_id = property_room_types.id").
		Where("rooms.id IN ?", raw)
	var models []PropertyModel
	err := r.db.WithContext(ctx).
		Where("id IN (?)", owners).
		Where("status = ? AND deleted_at IS NULL", string(properties.StatusActive)).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, wrap("load properties by rooms", err)
	}
	return r.loadGraph(ctx, models)
}

func (r *PropertyRepository) ListByHost(ctx context.Context, host properties.HostID) ([]*properties.Property, error) {
	q := r.db.WithContext(ctx).Where("deleted_at IS NULL")
	if host != "" {
		q = q.Where("host_id = ?", string(host))
	}
	var models []PropertyModel
	if err := q.Order("created_at, id").Find(&models).Error; err != nil {
		return nil, wrap("list host properties", err)
	}
	g, err := r.loadGraph(ctx, models)
	if err != nil {
		return nil, err
	}
	return g.Properties(), nil
}

func (r *PropertyRepository) RoomTypeByID(ctx context.Context, id properties.PropertyRoomTypeID) (*properties.PropertyRoomType, error) {
	var model RoomTypeModel
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", string(id)).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, properties.ErrNotFound
	}
	if err != nil {
		return nil, wrap("load room type", err)
	}
	t := model.toDomain()
	var roomIDs []string
	if err := r.db.WithContext(ctx).Model(&RoomModel{}).Where("room_type_id = ?", model.ID).Order("created_at, id").Pluck("id", &roomIDs).Error; err != nil {
		return nil, wrap("load room type rooms", err)
	}
	for _, rid := range roomIDs {
		t.RoomIDs = append(t.RoomIDs, properties.RoomID(rid))
	}
	return t, nil
}

func (r *PropertyRepository) RoomByID(ctx context.Context, id properties.RoomID) (*properties.Room, error) {
	var model RoomModel
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", string(id)).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, properties.ErrNotFound
	}
	if err != nil {
		return nil, wrap("load room", err)
	}
	return model.toDomain(), nil
}

func (r *PropertyRepository) OwnerOfRoomType(ctx context.Context, id properties.PropertyRoomTypeID) (*properties.Property, error) {
	var model PropertyModel
	err := r.db.WithContext(ctx).
		Joins("JOIN property_room_types ON property_room_types.property_id = properties.id").
		Where("property_room_types.id = ? AND properties.deleted_at IS NULL", string(id)).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, properties.ErrNotFound
	}
	if err != nil {
		return nil, wrap("load room type owner", err)
	}
	return model.toDomain(nil), nil
}

func (r *PropertyRepository) SoftDelete(ctx context.Context, id properties.PropertyID, at time.Time) error {
	at = at.UTC()
	res := r.db.WithContext(ctx).Model(&PropertyModel{}).
		Where("id = ? AND deleted_at IS NULL", string(id)).
		Updates(map[string]any{"deleted_at": at, "updated_at": at})
	if res.Error != nil {
		return wrap("soft delete property", res.Error)
	}
	if res.RowsAffected == 0 {
		return properties.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) SetRoomStatus(ctx context.Context, id properties.RoomID, status properties.Status) error {
	if _, err := properties.ParseStatus(string(status)); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&RoomModel{}).
		Where("id = ? AND deleted_at IS NULL", string(id)).
		Update("status", string(status))
	if res.Error != nil {
		return wrap("set room status", res.Error)
	}
	if res.RowsAffected == 0 {
		// Some drivers report zero rows when the value is unchanged.
		if _, err := r.RoomByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *PropertyRepository) requireProperty(ctx context.Context, id properties.PropertyID) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&PropertyModel{}).Where("id = ? AND deleted_at IS NULL", string(id)).Count(&count).Error
	if err != nil {
		return wrap("check property", err)
	}
	if count == 0 {
		return properties.ErrNotFound
	}
	return nil
}

// loadGraph fetches everything the given properties own and assembles a
// graph in property, room type, room order.
func (r *PropertyRepository) loadGraph(ctx context.Context, models []PropertyModel) (*properties.Graph, error) {
	g := properties.NewGraph()
	if len(models) == 0 {
		return g, nil
	}
	db := r.db.WithContext(ctx)
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	var features []PropertyFeatureModel
	if err := db.Where("property_id IN ?", ids).Order("property_id, position").Find(&features).Error; err != nil {
		return nil, wrap("load features", err)
	}
	featuresOf := make(map[string][]properties.VocabularyID)
	vocabIDs := make(map[string]struct{})
	for _, f := range features {
		featuresOf[f.PropertyID] = append(featuresOf[f.PropertyID], properties.VocabularyID(f.VocabularyID))
		vocabIDs[f.VocabularyID] = struct{}{}
	}
	for _, m := range models {
		g.AddProperty(m.toDomain(featuresOf[m.ID]))
	}

	var roomTypes []RoomTypeModel
	if err := db.Where("property_id IN ?", ids).Order("created_at, id").Find(&roomTypes).Error; err != nil {
		return nil, wrap("load room types", err)
	}
	typeIDs := make([]string, 0, len(roomTypes))
	for _, t := range roomTypes {
		g.AddRoomType(t.toDomain())
		typeIDs = append(typeIDs, t.ID)
		if t.RoomTypeID != "" {
			vocabIDs[t.RoomTypeID] = struct{}{}
		}
	}

	if len(typeIDs) > 0 {
		var rooms []RoomModel
		if err := db.Where("room_type_id IN ?", typeIDs).Order("created_at, id").Find(&rooms).Error; err != nil {
			return nil, wrap("load rooms", err)
		}
		for _, room := range rooms {
			g.AddRoom(room.toDomain())
		}
	}

	var media []MediaModel
	if err := db.Where("property_id IN ?", ids).Order("position, id").Find(&media).Error; err != nil {
		return nil, wrap("load media", err)
	}
	for _, m := range media {
		g.AddMedia(m.toDomain())
	}

	if len(vocabIDs) > 0 {
		keys := make([]string, 0, len(vocabIDs))
		for id := range vocabIDs {
			keys = append(keys, id)
		}
		var vocab []VocabularyModel
		if err := db.Where("id IN ?", keys).Find(&vocab).Error; err != nil {
			return nil, wrap("load vocabulary", err)
		}
		for _, v := range vocab {
			g.AddVocabulary(v.toDomain())
		}
	}
	return g, nil
}

// VocabularyRepository implements properties.VocabularyRepository with GORM.
type VocabularyRepository struct {
	db *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

func (r *VocabularyRepository) Save(ctx context.Context, e *properties.VocabularyEntry) error {
	model := VocabularyModel{ID: string(e.ID), Kind: string(e.Kind), Name: e.Name, Icon: e.Icon}
	return wrap("save vocabulary", r.db.WithContext(ctx).Save(&model).Error)
}

func (r *VocabularyRepository) List(ctx context.Context, kind properties.Kind) ([]*properties.VocabularyEntry, error) {
	q := r.db.WithContext(ctx)
	if kind != "" {
		q = q.Where("kind = ?", string(kind))
	}
	var models []VocabularyModel
	if err := q.Order("name, id").Find(&models).Error; err != nil {
		return nil, wrap("list vocabulary", err)
	}
	out := make([]*properties.VocabularyEntry, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *VocabularyRepository) ByIDs(ctx context.Context, ids []properties.VocabularyID) ([]*properties.VocabularyEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	var models []VocabularyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&models).Error; err != nil {
		return nil, wrap("load vocabulary", err)
	}
	out := make([]*properties.VocabularyEntry, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

var (
	_ properties.Repository           = (*PropertyRepository)(nil)
	_ properties.VocabularyRepository = (*VocabularyRepository)(nil)
)
