package memory

import (
	"context"
	"sync"

	appoutbox "stayhub/internal/app/outbox"
)

// Publisher delivers committed records, typically the Kafka producer.
type Publisher interface {
	Publish(ctx context.Context, record appoutbox.EventRecord) error
}

// Outbox keeps committed records until flushed. Without a publisher a
// flush just records them as delivered.
type Outbox struct {
	mu        sync.Mutex
	records   []appoutbox.EventRecord
	delivered []appoutbox.EventRecord
	publisher Publisher
}

func NewOutbox(publisher Publisher) *Outbox {
	return &Outbox{publisher: publisher}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Flush publishes pending records in order and keeps the ones that failed.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, rec := range o.records {
		if o.publisher != nil {
			if err := o.publisher.Publish(ctx, rec); err != nil {
				o.records = o.records[i:]
				return err
			}
		}
		o.delivered = append(o.delivered, rec)
	}
	o.records = nil
	return nil
}

// Pending returns records not yet flushed.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

// Delivered returns records flushed so far.
func (o *Outbox) Delivered() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.delivered...)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
