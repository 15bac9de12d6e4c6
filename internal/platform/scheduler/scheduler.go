package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Job is a unit of background work. The context carries a logger tagged with the run ID.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a scheduler whose runs are each bounded by timeout.
func New(logger *slog.Logger, timeout time.Duration) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:    c,
		logger:  logger,
		timeout: timeout,
	}
}

// Register adds a named job. spec accepts standard cron expressions and descriptors such as "@every 1h".
func (s *Scheduler) Register(spec string, name string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("failed to schedule job %s with %q: %w", name, spec, err)
	}
	s.logger.Info("Scheduled job", slog.String("job", name), slog.String("schedule", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	logger := s.logger.With(slog.String("job", name), slog.String("run_id", uuid.NewString()))
	ctx := middleware.WithLogger(context.Background(), logger)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		logger.Error("Scheduled job failed", slog.String("error", err.Error()), slog.Duration("elapsed", time.Since(start)))
		return
	}
	logger.Info("Scheduled job finished", slog.Duration("elapsed", time.Since(start)))
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduled jobs still running: %w", ctx.Err())
	}
}
