// Package jobs runs periodic background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionSweeper deletes expired sessions. Satisfied by *service.AuthService.
type SessionSweeper interface {
	SweepSessions(ctx context.Context) (int64, error)
}

// runTimeout bounds a single sweep so a stuck database cannot pile up runs.
const runTimeout = 30 * time.Second

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	sweeper SessionSweeper
	logger  *slog.Logger
}

// New builds a Scheduler evaluating specs in UTC.
func New(sweeper SessionSweeper, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start registers the session sweep on sweepSpec (standard five-field cron
// or a descriptor such as "@hourly") and starts the runner in the background.
func (s *Scheduler) Start(sweepSpec string) error {
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return fmt.Errorf("jobs.Scheduler.Start: session sweep %q: %w", sweepSpec, err)
	}
	s.cron.Start()
	s.logger.Info("job scheduler started", "session_sweep", sweepSpec)
	return nil
}

// Stop halts the runner and waits for a sweep in progress to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("job scheduler stopped")
}

// Sweep runs one session sweep immediately.
func (s *Scheduler) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	n, err := s.sweeper.SweepSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("jobs.Scheduler.Sweep: %w", err)
	}
	return n, nil
}

func (s *Scheduler) runSweep() {
	start := time.Now()
	n, err := s.Sweep(context.Background())
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return
	}
	s.logger.Info("session sweep finished",
		"deleted", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
