package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// OutboxJanitor is implemented by persistent outboxes.
type OutboxJanitor interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
	ReleaseStale(ctx context.Context, cutoff time.Time) (int, error)
}

// SessionPurger drops expired sessions.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Maintenance runs housekeeping jobs on a cron spec.
type Maintenance struct {
	Spec            string
	Outbox          OutboxJanitor
	Sessions        SessionPurger
	OutboxRetention time.Duration
	ClaimTimeout    time.Duration
	JobTimeout      time.Duration
	Logger          *slog.Logger
	Now             func() time.Time

	cron *cron.Cron
}

// Start schedules the jobs. Stop must be called to release the cron goroutine.
func (m *Maintenance) Start() error {
	spec := m.Spec
	if spec == "" {
		spec = "@hourly"
	}
	m.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := m.cron.AddFunc(spec, func() { m.RunOnce(context.Background()) }); err != nil {
		return err
	}
	m.cron.Start()
	if m.Logger != nil {
		m.Logger.Info("maintenance scheduled", "spec", spec)
	}
	return nil
}

// Stop waits for a running job to finish or ctx to end.
func (m *Maintenance) Stop(ctx context.Context) {
	if m.cron == nil {
		return
	}
	select {
	case <-m.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce executes every configured job. Failures are logged and do not
// stop later jobs.
func (m *Maintenance) RunOnce(ctx context.Context) {
	timeout := m.JobTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	now := m.now()

	if m.Outbox != nil {
		retention := m.OutboxRetention
		if retention <= 0 {
			retention = 72 * time.Hour
		}
		n, err := m.Outbox.Prune(ctx, now.Add(-retention))
		m.report("outbox prune", n, err)

		claim := m.ClaimTimeout
		if claim <= 0 {
			claim = 5 * time.Minute
		}
		n, err = m.Outbox.ReleaseStale(ctx, now.Add(-claim))
		m.report("outbox release", n, err)
	}
	if m.Sessions != nil {
		n, err := m.Sessions.PurgeExpired(ctx)
		m.report("session purge", n, err)
	}
}

func (m *Maintenance) report(job string, n int, err error) {
	if m.Logger == nil {
		return
	}
	if err != nil {
		m.Logger.Error("maintenance job failed", "job", job, "error", err)
		return
	}
	if n > 0 {
		m.Logger.Info("maintenance job done", "job", job, "rows", n)
	}
}

func (m *Maintenance) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}
