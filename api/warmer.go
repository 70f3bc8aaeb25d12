/*
warmer.go - Preset projection cache warmer

PURPOSE:
  Periodically projects every stored preset so the preset pages are served
  from the projection cache. Without it the first visitor after a cache
  expiry pays for a long-horizon projection.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Projects through Handler.drip, the same path the API uses, so warmed
    entries are the ones requests look up
  - Invalid stored configs are logged and skipped

CONFIGURATION:
  - Interval: How often to warm (default: half the cache TTL)
  - Enabled: Whether the warmer is active (default: true)

USAGE:
  warmer := NewPresetWarmer(handler, cfg.CacheTTL/2)
  warmer.Start()
  // ... later
  warmer.Stop()

SEE ALSO:
  - handlers.go: GetPresetProjection endpoint
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/dividend-engine/logger"
)

// PresetWarmer keeps preset projections in the cache.
type PresetWarmer struct {
	Handler  *Handler
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPresetWarmer creates a new warmer.
func NewPresetWarmer(handler *Handler, interval time.Duration) *PresetWarmer {
	return &PresetWarmer{
		Handler:  handler,
		Interval: interval,
		Enabled:  interval > 0,
	}
}

// Start begins the warmer.
func (pw *PresetWarmer) Start() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.Enabled {
		logger.L.Info("Preset warmer disabled, not starting")
		return
	}
	if pw.ticker != nil {
		return
	}

	pw.ticker = time.NewTicker(pw.Interval)
	pw.stop = make(chan struct{})
	pw.wg.Add(1)

	go pw.run(pw.ticker, pw.stop)

	logger.L.Info("Preset warmer started", "interval", pw.Interval.String())
}

// Stop stops the warmer and waits for a running pass to finish.
func (pw *PresetWarmer) Stop() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.ticker != nil {
		pw.ticker.Stop()
		close(pw.stop)
		pw.wg.Wait()
		pw.ticker = nil
		logger.L.Info("Preset warmer stopped")
	}
}

func (pw *PresetWarmer) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer pw.wg.Done()

	// Run immediately on start
	pw.Warm(context.Background())

	for {
		select {
		case <-ticker.C:
			pw.Warm(context.Background())
		case <-stop:
			return
		}
	}
}

// Warm projects every stored preset once and returns how many were cached.
func (pw *PresetWarmer) Warm(ctx context.Context) int {
	h := pw.Handler
	records, err := h.Store.ListPresets(ctx)
	if err != nil {
		logger.L.Error("Preset warmer failed to list presets", "error", err)
		return 0
	}

	warmed := 0
	for _, rec := range records {
		cfg, err := h.ConfigFactory.ParseConfig(rec.ConfigJSON)
		if err != nil {
			logger.L.Warn("Preset warmer skipping invalid preset", "id", rec.ID, "error", err)
			continue
		}
		if _, err := h.drip(ctx, cfg); err != nil {
			logger.L.Warn("Preset warmer projection failed", "id", rec.ID, "error", err)
			continue
		}
		warmed++
	}

	logger.L.Debug("Preset warmer pass completed", "warmed", warmed, "total", len(records))
	return warmed
}
