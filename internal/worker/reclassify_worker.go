package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/service"
)

// sweepTimeout bounds a single reclassification pass.
const sweepTimeout = 10 * time.Minute

// ReclassifyWorker periodically retries classification for tickets stuck in
// pending, typically after an inference outage.
type ReclassifyWorker struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// StartReclassifyWorker schedules sweeps according to a standard cron
// expression ("@every 10m" also works). An empty schedule disables the worker
// and returns nil; Stop on a nil worker is a no-op.
func StartReclassifyWorker(spec string, classification *service.ClassificationService, logger *zap.Logger) (*ReclassifyWorker, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		result, err := classification.ReclassifyPending(ctx)
		if err != nil {
			logger.Error("reclassification sweep failed", zap.Error(err))
			return
		}
		logger.Info("reclassification sweep finished",
			zap.Int("scanned", result.Scanned),
			zap.Int("classified", result.Classified),
			zap.Int("failed", result.Failed))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reclassify schedule %q: %w", spec, err)
	}

	c.Start()
	logger.Info("reclassify worker started", zap.String("schedule", spec))
	return &ReclassifyWorker{cron: c, logger: logger}, nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *ReclassifyWorker) Stop() {
	if w == nil {
		return
	}
	<-w.cron.Stop().Done()
}
