package gormdb

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
)

var ErrUnitOfWorkNotConfigured = errors.New("gormdb: unit of work factory missing database")

// Factory starts one SQL transaction per unit of work.
type Factory struct {
	DB *gorm.DB
	// ReadOnlyTx forwards TxOptions.ReadOnly to the driver. SQLite rejects it.
	ReadOnlyTx bool
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	var txOpts *sql.TxOptions
	if opts.ReadOnly && f.ReadOnlyTx {
		txOpts = &sql.TxOptions{ReadOnly: true}
	}
	tx := f.DB.WithContext(ctx).Begin(txOpts)
	if tx.Error != nil {
		return nil, wrap("begin", tx.Error)
	}
	return &Unit{
		tx:           tx,
		properties:   NewPropertyRepository(tx),
		vocabulary:   NewVocabularyRepository(tx),
		availability: NewAvailabilityRepository(tx),
		outbox:       NewOutboxStore(tx),
	}, nil
}

type Unit struct {
	tx   *gorm.DB
	done bool

	properties   *PropertyRepository
	vocabulary   *VocabularyRepository
	availability *AvailabilityRepository
	outbox       *OutboxStore
}

func (u *Unit) Properties() properties.Repository {
	return u.properties
}

func (u *Unit) Vocabulary() properties.VocabularyRepository {
	return u.vocabulary
}

func (u *Unit) Availability() availability.Repository {
	return u.availability
}

// Outbox writes records into the same transaction as the domain rows.
func (u *Unit) Outbox() appoutbox.Outbox {
	return u.outbox
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return wrap("commit", u.tx.Commit().Error)
}

// Rollback is a no-op after Commit.
func (u *Unit) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	err := u.tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return wrap("rollback", err)
}

var (
	_ uow.UoWFactory = Factory{}
	_ uow.UnitOfWork = (*Unit)(nil)
)
