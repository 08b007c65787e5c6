package app

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/nba-props/internal/platform/id"
	"github.com/riskibarqy/nba-props/internal/platform/logging"
	"github.com/riskibarqy/nba-props/internal/usecase"
)

type ingestionRunner interface {
	Run(ctx context.Context) (usecase.IngestionResult, error)
}

type IngestionRecorder interface {
	ObserveIngestion(success bool, records, errors int, elapsed time.Duration)
}

// ObservedIngestion tags each run with an id and records its outcome. Both
// the HTTP job route and the scheduler go through it.
type ObservedIngestion struct {
	next     ingestionRunner
	ids      id.Generator
	recorder IngestionRecorder
	logger   *logging.Logger
	now      func() time.Time
}

func NewObservedIngestion(next ingestionRunner, ids id.Generator, recorder IngestionRecorder, logger *logging.Logger) *ObservedIngestion {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ObservedIngestion{next: next, ids: ids, recorder: recorder, logger: logger, now: time.Now}
}

func (o *ObservedIngestion) Run(ctx context.Context) (usecase.IngestionResult, error) {
	runID, err := o.ids.NewID()
	if err != nil {
		runID = "unknown"
	}
	logger := o.logger.With("run_id", runID)

	started := o.now()
	result, err := o.next.Run(ctx)
	elapsed := o.now().Sub(started)

	if errors.Is(err, usecase.ErrConflict) {
		logger.InfoContext(ctx, "ingestion skipped", "reason", err.Error())
		return result, err
	}
	if o.recorder != nil {
		o.recorder.ObserveIngestion(err == nil, result.Metadata.Records, len(result.Failures), elapsed)
	}
	if err != nil {
		logger.ErrorContext(ctx, "ingestion run failed", "failures", len(result.Failures), "duration_ms", elapsed.Milliseconds(), "error", err)
		return result, err
	}

	logger.InfoContext(ctx, "ingestion run finished",
		"records", result.Metadata.Records,
		"players", result.Metadata.Players,
		"failures", len(result.Failures),
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}
