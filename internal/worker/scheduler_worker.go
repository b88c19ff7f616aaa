package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/secureguard/phishsim-service/internal/service"
)

// SchedulerWorker launches SCHEDULED campaigns once their schedule time
// passes, turning time-based launch into real behavior.
type SchedulerWorker struct {
	campaigns *service.CampaignService
	interval  time.Duration
	logger    *zap.Logger
}

// NewSchedulerWorker constructs the worker. A non-positive interval
// disables it.
func NewSchedulerWorker(campaigns *service.CampaignService, interval time.Duration, logger *zap.Logger) *SchedulerWorker {
	return &SchedulerWorker{campaigns: campaigns, interval: interval, logger: logger}
}

// Run polls for due campaigns until the context is cancelled.
func (w *SchedulerWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("campaign scheduler disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("campaign scheduler started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("campaign scheduler stopped")
			return
		case now := <-ticker.C:
			launched, err := w.campaigns.LaunchDue(ctx, now.UTC())
			if err != nil {
				w.logger.Error("scheduled launch sweep failed", zap.Error(err))
				continue
			}
			if len(launched) > 0 {
				w.logger.Info("launched scheduled campaigns", zap.Strings("campaign_ids", launched))
			}
		}
	}
}
