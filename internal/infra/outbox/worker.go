package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appoutbox "stayhub/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Store is the relay side of a persistent outbox.
type Store interface {
	Claim(ctx context.Context, workerID string) (*appoutbox.EventRecord, int, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, reason string) error
}

// Notifier wakes the worker before its next tick.
type Notifier interface {
	Notifications() <-chan struct{}
}

// Worker polls the store and relays records to the producer, retrying
// failures with the configured backoff.
type Worker struct {
	Store    Store
	Producer Producer
	Envelope Envelope
	Interval time.Duration
	Backoff  []time.Duration
	ID       string
	Logger   *slog.Logger
	Now      func() time.Time
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	var wake <-chan struct{}
	if n, ok := w.Store.(Notifier); ok {
		wake = n.Notifications()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-wake:
		}
		if err := w.Drain(ctx); err != nil && ctx.Err() == nil && w.Logger != nil {
			w.Logger.Warn("outbox relay failed", "error", err)
		}
	}
}

// Drain relays every due record and returns when none is left.
func (w *Worker) Drain(ctx context.Context) error {
	for {
		done, err := w.ProcessOnce(ctx)
		if err != nil || done {
			return err
		}
	}
}

// ProcessOnce relays one record. It reports done when nothing was due.
func (w *Worker) ProcessOnce(ctx context.Context) (bool, error) {
	rec, attempts, err := w.Store.Claim(ctx, w.ID)
	if err != nil {
		return true, err
	}
	if rec == nil {
		return true, nil
	}
	payload, headers, err := w.Envelope.Format(*rec)
	if err == nil {
		err = w.Producer.Publish(ctx, w.Envelope.Topic(rec.Name), rec.Aggregate, payload, headers)
	}
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("outbox publish failed", "event_id", rec.ID, "event", rec.Name, "attempts", attempts+1, "error", err)
		}
		return false, w.Store.MarkFailed(ctx, rec.ID, w.nextRetry(attempts), err.Error())
	}
	return false, w.Store.MarkSent(ctx, rec.ID)
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	switch {
	case attempts < len(w.Backoff):
		return now.Add(w.Backoff[attempts])
	case len(w.Backoff) > 0:
		return now.Add(w.Backoff[len(w.Backoff)-1])
	}
	return now.Add(5 * time.Second)
}
