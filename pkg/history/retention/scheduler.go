package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler invokes a job on a cron spec.
type Scheduler struct {
	spec   string
	job    func(context.Context)
	logger *slog.Logger

	mu    sync.Mutex
	cron  *cron.Cron // nil while stopped
	entry cron.EntryID
}

func newScheduler(spec string, job func(context.Context)) *Scheduler {
	return &Scheduler{
		spec:   spec,
		job:    job,
		logger: slog.Default().With("component", "history.scheduler"),
	}
}

// Start registers the job and starts the cron loop. The loop is stopped
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return errors.New("scheduler already running")
	}

	sched, err := cron.ParseStandard(s.spec)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}
	c := cron.New()
	s.entry = c.Schedule(sched, cron.FuncJob(func() { s.job(ctx) }))
	c.Start()
	s.cron = c

	s.logger.Info("retention scheduler started", "schedule", s.spec)
	context.AfterFunc(ctx, s.Stop)
	return nil
}

// Stop halts the loop and waits for a running job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// NextRun reports the next activation, or nil while stopped.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return nil
	}
	next := s.cron.Entry(s.entry).Next
	return &next
}
