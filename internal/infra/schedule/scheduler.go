package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named periodic task.
type Job struct {
	Name string
	Spec string
	Run  func()
}

// Scheduler runs maintenance jobs on cron schedules; panics inside a job are recovered and logged.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger))),
		logger: logger,
	}
}

func (s *Scheduler) Register(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("schedule: job %q has no function", job.Name)
	}
	if _, err := s.cron.AddFunc(job.Spec, job.Run); err != nil {
		return fmt.Errorf("schedule: job %q: %w", job.Name, err)
	}
	s.logger.Info("scheduled job", "job", job.Name, "schedule", job.Spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Pruner is satisfied by provider caches and the in-memory idempotency store.
type Pruner interface {
	Prune(maxAge time.Duration) int
}

// PruneJob evicts entries older than maxAge.
func PruneJob(name, spec string, cache Pruner, maxAge time.Duration, logger *slog.Logger) Job {
	return Job{
		Name: name,
		Spec: spec,
		Run: func() {
			removed := cache.Prune(maxAge)
			if logger != nil && removed > 0 {
				logger.Info("entries pruned", "job", name, "removed", removed)
			}
		},
	}
}
