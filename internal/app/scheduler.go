package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/nba-props/internal/platform/logging"
)

const scheduledIngestTimeout = 45 * time.Minute

// Scheduler triggers ingestion on a cron expression. Overlapping ticks are
// skipped while a run is still in flight.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	runner   ingestionRunner
	timeout  time.Duration
	logger   *logging.Logger
}

type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

func NewScheduler(schedule string, runner ingestionRunner, logger *logging.Logger) (*Scheduler, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, fmt.Errorf("schedule expression is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("ingestion runner is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	l := cronLogger{logger: logger}
	s := &Scheduler{
		schedule: schedule,
		runner:   runner,
		timeout:  scheduledIngestTimeout,
		logger:   logger,
	}
	s.cron = cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("ingest scheduler started", "schedule", s.schedule)
	s.cron.Start()
}

// Stop waits for an in-flight run until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("ingest scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for scheduled ingestion: %w", ctx.Err())
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Outcome logging happens in the runner.
	_, _ = s.runner.Run(ctx)
}
