package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Refresher re-runs a refresh function on a fixed interval until its context ends.
// Each refresh is an independent fetch-and-classify cycle; failures are logged
// and the next tick tries again.
type Refresher struct {
	name     string
	interval time.Duration
	refresh  func(ctx context.Context) error
	logger   *zap.Logger
}

// NewRefresher creates a Refresher. name identifies the view in logs.
func NewRefresher(name string, interval time.Duration, refresh func(ctx context.Context) error, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		name:     name,
		interval: interval,
		refresh:  refresh,
		logger:   logger,
	}
}

// Run refreshes immediately, then once per interval.
// It returns nil when ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("refresh interval for %s must be positive (got %s)", r.name, r.interval)
	}

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := r.refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("refresh failed",
			zap.String("view", r.name),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("refreshed",
		zap.String("view", r.name),
		zap.Duration("took", time.Since(start)),
	)
}
