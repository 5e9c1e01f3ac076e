package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/properties"
)

// ErrFactoryMisconfigured indicates missing dependencies.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

var errUnitClosed = errors.New("memory: unit of work already closed")

// Factory wires in-memory repositories into a unit-of-work boundary.
// Writes are applied immediately; only outbox records wait for commit.
type Factory struct {
	Store  *Store
	Outbox *Outbox
}

func NewFactory(store *Store, box *Outbox) Factory {
	return Factory{Store: store, Outbox: box}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil || f.Outbox == nil {
		return nil, ErrFactoryMisconfigured
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	return &Unit{
		properties:   NewPropertyRepository(f.Store),
		vocabulary:   NewVocabularyRepository(f.Store),
		availability: NewAvailabilityRepository(f.Store),
		outbox:       &unitOutbox{sink: f.Outbox},
		readOnly:     opts.ReadOnly,
	}, nil
}

// Unit is a uow.UnitOfWork backed by the shared Store.
type Unit struct {
	properties   *PropertyRepository
	vocabulary   *VocabularyRepository
	availability *AvailabilityRepository
	outbox       *unitOutbox
	readOnly     bool

	mu     sync.Mutex
	closed bool
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

func (u *Unit) Outbox() appoutbox.Outbox {
	return u.outbox
}

// Commit hands buffered outbox records to the shared outbox.
func (u *Unit) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return errUnitClosed
	}
	u.closed = true
	return u.outbox.publish(ctx)
}

// Rollback drops buffered outbox records. Rolling back twice is a no-op.
func (u *Unit) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	u.outbox.discard()
	return nil
}

type unitOutbox struct {
	mu      sync.Mutex
	sink    *Outbox
	pending []appoutbox.EventRecord
}

func (o *unitOutbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

// Flush is a no-op until commit; the shared outbox does the delivery.
func (o *unitOutbox) Flush(ctx context.Context) error {
	return nil
}

func (o *unitOutbox) publish(ctx context.Context) error {
	o.mu.Lock()
	records := o.pending
	o.pending = nil
	o.mu.Unlock()
	for _, rec := range records {
		if err := o.sink.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (o *unitOutbox) discard() {
	o.mu.Lock()
	o.pending = nil
	o.mu.Unlock()
}

var (
	_ uow.UoWFactory = Factory{}
	_ uow.UnitOfWork = (*Unit)(nil)
)
