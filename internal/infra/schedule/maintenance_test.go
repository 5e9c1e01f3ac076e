package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeJanitor struct {
	pruneCutoff   time.Time
	releaseCutoff time.Time
}

func (f *fakeJanitor) Prune(_ context.Context, cutoff time.Time) (int, error) {
	f.pruneCutoff = cutoff
	return 3, nil
}

func (f *fakeJanitor) ReleaseStale(_ context.Context, cutoff time.Time) (int, error) {
	f.releaseCutoff = cutoff
	return 0, errors.New("db down")
}

type fakePurger struct{ calls int }

func (f *fakePurger) PurgeExpired(context.Context) (int, error) {
	f.calls++
	return 1, nil
}

func TestRunOnceRunsEveryJob(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	janitor := &fakeJanitor{}
	purger := &fakePurger{}
	m := &Maintenance{
		Outbox:          janitor,
		Sessions:        purger,
		OutboxRetention: 24 * time.Hour,
		Now:             func() time.Time { return now },
	}
	m.RunOnce(context.Background())

	if !janitor.pruneCutoff.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected prune cutoff %v", janitor.pruneCutoff)
	}
	if !janitor.releaseCutoff.Equal(now.Add(-5 * time.Minute)) {
		t.Fatalf("unexpected release cutoff %v", janitor.releaseCutoff)
	}
	if purger.calls != 1 {
		t.Fatalf("a failing job must not stop later jobs")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	m := &Maintenance{Spec: "not a cron spec"}
	if err := m.Start(); err == nil {
		t.Fatalf("expected spec error")
	}
}
