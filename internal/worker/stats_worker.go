package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
	"github.com/aryan0dhankhar/giftexchange/internal/observability/metrics"
)

// StatsWorker periodically snapshots registry sizes and publishes them as
// gauges. It only takes the shared lock.
type StatsWorker struct {
	store    domain.Store
	logger   *slog.Logger
	interval time.Duration
	publish  func(domain.Counts)
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(store domain.Store, logger *slog.Logger, interval time.Duration) *StatsWorker {
	return &StatsWorker{
		store:    store,
		logger:   logger,
		interval: interval,
		publish:  metrics.SetCounts,
	}
}

// Start runs the worker loop until ctx is cancelled. One snapshot is taken
// immediately so the gauges are populated before the first tick.
func (w *StatsWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("stats worker started", slog.Duration("interval", w.interval))
	w.collect(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return nil
		case <-ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	var counts domain.Counts
	err := w.store.View(ctx, func(tx domain.ReadTx) error {
		counts = tx.Counts()
		return nil
	})
	if err != nil {
		w.logger.Error("failed to read registry counts", slog.String("error", err.Error()))
		return
	}

	w.publish(counts)
	w.logger.Debug("registry counts published",
		slog.Int("users", counts.Users),
		slog.Int("groups", counts.Groups),
		slog.Int("open_groups", counts.OpenGroups),
		slog.Int("memberships", counts.Memberships),
	)
}
