// internal/app/system/workers/locationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"go.uber.org/zap"
)

// LocationCleanup is a background worker that purges stale coordinates.
//
// The suggestion engine already ignores locations older than its recency
// window, so expired coordinates serve no matching purpose; clearing them
// keeps position history out of the database.
type LocationCleanup struct {
	profiles       *profilestore.Store
	log            *zap.Logger
	interval       time.Duration
	staleThreshold time.Duration
	stopCh         chan struct{}
	wg             sync.WaitGroup
}

// NewLocationCleanup creates a new location cleanup worker.
//
// Parameters:
//   - profiles: the profile store
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 10 minutes)
//   - staleThreshold: how old a location must be before purging (e.g., 24 hours)
func NewLocationCleanup(profiles *profilestore.Store, logger *zap.Logger, interval, staleThreshold time.Duration) *LocationCleanup {
	return &LocationCleanup{
		profiles:       profiles,
		log:            logger,
		interval:       interval,
		staleThreshold: staleThreshold,
		stopCh:         make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *LocationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("location cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("stale_threshold", w.staleThreshold))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LocationCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("location cleanup worker stopped")
}

func (w *LocationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *LocationCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.profiles.ClearStaleLocations(ctx, time.Now().UTC().Add(-w.staleThreshold))
	if err != nil {
		w.log.Error("failed to clear stale locations", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("cleared stale locations", zap.Int64("count", count))
	}
}
