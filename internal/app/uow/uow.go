package uow

import (
	"context"

	"stayhub/internal/app/outbox"
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Properties() properties.Repository
	Vocabulary() properties.VocabularyRepository
	Availability() availability.Repository
	Outbox() outbox.Outbox

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}

// Within runs fn in a fresh unit of work. The unit commits when fn returns
// nil and rolls back on any error or panic.
func Within(ctx context.Context, factory UoWFactory, opts TxOptions, fn func(ctx context.Context, unit UnitOfWork) error) (err error) {
	if factory == nil {
		return ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return err
	}
	execCtx := Bind(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}()
	if err := fn(execCtx, unit); err != nil {
		return err
	}
	if err := unit.Commit(execCtx); err != nil {
		return err
	}
	committed = true
	return nil
}

// Bind stores unit in ctx for handlers further down the chain.
func Bind(ctx context.Context, unit UnitOfWork) context.Context {
	return ContextWithUnitOfWork(ctx, unit)
}
