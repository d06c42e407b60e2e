package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/bodega-pos/bodega/internal/catalog"
	jobmetrics "github.com/bodega-pos/bodega/internal/jobs"
)

// LowStockScanJob walks the catalog and logs every product running below the
// stock threshold, mirroring the low-stock flag of the stock status view.
type LowStockScanJob struct {
	Store     catalog.StorePort
	Threshold int64
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(store catalog.StorePort, threshold int64, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	if threshold <= 0 {
		threshold = 5
	}
	return &LowStockScanJob{Store: store, Threshold: threshold, Logger: logger, Metrics: metrics}
}

// Handle processes low-stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	threshold := j.Threshold
	if payload.Threshold > 0 {
		threshold = payload.Threshold
	}

	tracker := j.Metrics.Track(TaskLowStockScan)
	low, err := j.scan(ctx, threshold)
	if err = tracker.End(err); err != nil {
		return err
	}

	if j.Logger != nil {
		for _, p := range low {
			j.Logger.Warn("low stock",
				slog.Int64("product_id", p.ID),
				slog.String("name", p.Name),
				slog.String("category", p.Category),
				slog.Int64("quantity", p.Quantity),
				slog.Int64("threshold", threshold),
			)
		}
		j.Logger.Info("low stock scan complete", slog.Int("flagged", len(low)))
	}
	return nil
}

func (j *LowStockScanJob) scan(ctx context.Context, threshold int64) ([]catalog.Product, error) {
	products, err := j.Store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var low []catalog.Product
	for _, p := range products {
		if p.Quantity < threshold {
			low = append(low, p)
		}
	}
	return low, nil
}
