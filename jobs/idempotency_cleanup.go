package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/bodega-pos/bodega/internal/jobs"
	"github.com/bodega-pos/bodega/internal/shared"
)

// idempotencyRetention is how long processed keys are kept before pruning.
const idempotencyRetention = 7 * 24 * time.Hour

// IdempotencyCleanupJob prunes aged idempotency keys.
type IdempotencyCleanupJob struct {
	Store   *shared.IdempotencyStore
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob wires dependencies for the cleanup handler.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{Store: store, Logger: logger, Metrics: metrics}
}

// Handle processes cleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("idempotency cleanup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskIdempotencyCleanup)
	err := tracker.End(j.Store.Cleanup(ctx, idempotencyRetention))
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("idempotency keys pruned")
	}
	return nil
}
