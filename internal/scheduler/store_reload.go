package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
)

// Reloader periodically reloads the problem log from its backend, so edits
// made by another process sharing the backend show up.
type Reloader struct {
	store         *tracker.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewReloader creates a new store reloader
func NewReloader(
	store *tracker.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Reloader {
	return &Reloader{
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the log once, then reloads on every tick or manual trigger.
func (r *Reloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := r.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to reload problems",
						logger.Error(err))
				}
			case <-r.manualTrigger:
				r.logger.Info("manual reload triggered")
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to reload problems",
						logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (r *Reloader) Stop() {
	close(r.stopCh)
}

// Reload reloads the store once.
func (r *Reloader) Reload(ctx context.Context) error {
	if err := r.store.Reload(ctx); err != nil {
		return err
	}
	r.logger.Info("problems reloaded",
		logger.Int("count", r.store.Len()))
	return nil
}
