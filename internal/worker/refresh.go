package worker

import (
	"context"
	"log/slog"
	"time"
)

// Refresher refreshes the price table from its upstream feed.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker periodically refreshes the price table.
type RefreshWorker struct {
	refresher Refresher
	interval  time.Duration
}

// NewRefreshWorker creates a new RefreshWorker.
func NewRefreshWorker(refresher Refresher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) {
	slog.Info("RefreshWorker: starting", "interval", w.interval)

	// Refresh immediately on startup
	w.refresh(ctx, "initial refresh")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RefreshWorker: shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx, "refresh")
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context, what string) {
	if err := w.refresher.Refresh(ctx); err != nil {
		slog.Error("RefreshWorker: "+what+" failed", "error", err)
		return
	}
	slog.Info("RefreshWorker: " + what + " completed")
}
