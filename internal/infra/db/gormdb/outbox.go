package gormdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appoutbox "stayhub/internal/app/outbox"
)

const (
	StateNew     = "NEW"
	StateClaimed = "CLAIMED"
	StateSent    = "SENT"
	StateFailed  = "FAILED"
)

// OutboxModel is one pending or delivered event.
type OutboxModel struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Name          string    `gorm:"size:128;not null"`
	Aggregate     string    `gorm:"size:64"`
	Payload       []byte    `gorm:"not null"`
	Headers       string    `gorm:"type:text"`
	OccurredAt    time.Time `gorm:"not null"`
	State         string    `gorm:"size:16;not null;index:idx_outbox_state_next"`
	Attempts      int       `gorm:"not null"`
	NextAttemptAt time.Time `gorm:"not null;index:idx_outbox_state_next"`
	ClaimedBy     string    `gorm:"size:64"`
	ClaimedAt     *time.Time
	SentAt        *time.Time `gorm:"index"`
	LastError     string     `gorm:"type:text"`
	CreatedAt     time.Time
}

func (OutboxModel) TableName() string { return "outbox_events" }

// OutboxStore persists event records next to domain rows and serves the
// relay worker.
type OutboxStore struct {
	db     *gorm.DB
	Now    func() time.Time
	notify chan struct{}
}

func NewOutboxStore(db *gorm.DB) *OutboxStore {
	return &OutboxStore{db: db, notify: make(chan struct{}, 1)}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	headers, err := json.Marshal(record.Headers)
	if err != nil {
		return err
	}
	now := s.now()
	model := OutboxModel{
		ID:            record.ID,
		Name:          record.Name,
		Aggregate:     record.Aggregate,
		Payload:       record.Payload,
		Headers:       string(headers),
		OccurredAt:    record.OccurredAt.UTC(),
		State:         StateNew,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
	return wrap("add outbox record", s.db.WithContext(ctx).Create(&model).Error)
}

// Flush wakes the relay; delivery itself happens in the worker.
func (s *OutboxStore) Flush(context.Context) error {
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return nil
}

// Notifications fires after each flush.
func (s *OutboxStore) Notifications() <-chan struct{} {
	return s.notify
}

// Claim locks the oldest due record for workerID. It returns nil when
// nothing is due.
func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*appoutbox.EventRecord, int, error) {
	now := s.now()
	var claimed *OutboxModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model OutboxModel
		q := tx.Where("state IN ? AND next_attempt_at <= ?", []string{StateNew, StateFailed}, now).
			Order("next_attempt_at, created_at")
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Take(&model).Error; err != nil {
			return err
		}
		res := tx.Model(&OutboxModel{}).
			Where("id = ? AND state = ?", model.ID, model.State).
			Updates(map[string]any{"state": StateClaimed, "claimed_by": workerID, "claimed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		claimed = &model
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, wrap("claim outbox record", err)
	}
	rec := appoutbox.EventRecord{
		ID:         claimed.ID,
		Name:       claimed.Name,
		Payload:    claimed.Payload,
		OccurredAt: claimed.OccurredAt.UTC(),
		Aggregate:  claimed.Aggregate,
		Headers:    map[string]string{},
	}
	if claimed.Headers != "" {
		_ = json.Unmarshal([]byte(claimed.Headers), &rec.Headers)
	}
	return &rec, claimed.Attempts, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	now := s.now()
	err := s.db.WithContext(ctx).Model(&OutboxModel{}).Where("id = ?", id).
		Updates(map[string]any{"state": StateSent, "sent_at": now, "last_error": ""}).Error
	return wrap("mark outbox sent", err)
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, reason string) error {
	err := s.db.WithContext(ctx).Model(&OutboxModel{}).Where("id = ?", id).
		Updates(map[string]any{
			"state":           StateFailed,
			"attempts":        gorm.Expr("attempts + 1"),
			"next_attempt_at": next.UTC(),
			"last_error":      reason,
		}).Error
	return wrap("mark outbox failed", err)
}

// Prune deletes records sent before cutoff.
func (s *OutboxStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res := s.db.WithContext(ctx).
		Where("state = ? AND sent_at < ?", StateSent, cutoff.UTC()).
		Delete(&OutboxModel{})
	if res.Error != nil {
		return 0, wrap("prune outbox", res.Error)
	}
	return int(res.RowsAffected), nil
}

// ReleaseStale returns records claimed before cutoff to the queue, for
// workers that died mid-delivery.
func (s *OutboxStore) ReleaseStale(ctx context.Context, cutoff time.Time) (int, error) {
	res := s.db.WithContext(ctx).Model(&OutboxModel{}).
		Where("state = ? AND claimed_at < ?", StateClaimed, cutoff.UTC()).
		Updates(map[string]any{"state": StateFailed, "next_attempt_at": s.now()})
	if res.Error != nil {
		return 0, wrap("release stale outbox records", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *OutboxStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
