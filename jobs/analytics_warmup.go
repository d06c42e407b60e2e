package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/bodega-pos/bodega/internal/analytics"
	jobmetrics "github.com/bodega-pos/bodega/internal/jobs"
)

// AnalyticsWarmupJob pre-populates the analytics cache so the first dashboard
// hit after an invalidation is served warm.
type AnalyticsWarmupJob struct {
	Analytics *analytics.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc *analytics.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{Analytics: analyticsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}

	tracker := j.Metrics.Track(TaskAnalyticsWarmup)
	err := j.warm(ctx)
	err = tracker.End(err)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("analytics cache warmed")
	}
	return nil
}

func (j *AnalyticsWarmupJob) warm(ctx context.Context) error {
	if _, err := j.Analytics.NetProfit(ctx); err != nil {
		return err
	}
	if _, err := j.Analytics.DailyProfit(ctx); err != nil {
		return err
	}
	if _, err := j.Analytics.DailySales(ctx); err != nil {
		return err
	}
	_, err := j.Analytics.TopProducts(ctx)
	return err
}
