package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the repeating background work: the short-period silent
// refresh of accounts, dashboard, and activity, and the long-period
// security-token renewal. Task failures are logged and swallowed, never
// surfaced to the operator; transient blips are corrected by the next
// run. Stop gives teardown a defined moment instead of relying on
// process exit.
type Scheduler struct {
	cron        *cron.Cron
	taskTimeout time.Duration
}

func New(taskTimeout time.Duration) *Scheduler {
	if taskTimeout <= 0 {
		taskTimeout = 15 * time.Second
	}

	return &Scheduler{
		cron:        cron.New(),
		taskTimeout: taskTimeout,
	}
}

// Add registers a periodic task. Tasks are deliberately uncoordinated
// with foreground operations: a user-initiated mutation may race a
// background refresh, and the whole-swap directory plus idempotent view
// re-application make that safe.
func (s *Scheduler) Add(name string, every time.Duration, run func(ctx context.Context) error) error {
	if every <= 0 {
		return fmt.Errorf("task %s: interval must be positive", name)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", every), func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.taskTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			slog.Warn("background task failed", "task", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("task %s: %w", name, err)
	}

	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done once any
// in-flight task has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
