// Package events holds the contract between aggregates and the outbox.
package events

import "time"

// DomainEvent is serialized as JSON into the outbox. EventName is
// "<aggregate>.<verb>"; the prefix selects the broker topic.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is embedded by aggregates that emit events. The zero value
// is ready to use.
type EventRecorder struct {
	pending []DomainEvent
}

// Record queues evs in order, ignoring nils.
func (r *EventRecorder) Record(evs ...DomainEvent) {
	for _, ev := range evs {
		if ev != nil {
			r.pending = append(r.pending, ev)
		}
	}
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	return append([]DomainEvent(nil), r.pending...)
}

// PullEvents hands the queue to the caller and starts a fresh one.
func (r *EventRecorder) PullEvents() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}
