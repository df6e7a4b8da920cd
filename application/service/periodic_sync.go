package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// PeriodicSync runs catalog sync on a timer, starting with an immediate run.
type PeriodicSync struct {
	syncer   *Sync
	logger   *slog.Logger
	interval time.Duration
	enabled  bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPeriodicSync creates a PeriodicSync from config and dependencies.
func NewPeriodicSync(cfg config.PeriodicSyncConfig, syncer *Sync, logger *slog.Logger) *PeriodicSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeriodicSync{
		syncer:   syncer,
		logger:   logger,
		interval: cfg.Interval(),
		enabled:  cfg.Enabled(),
	}
}

// Start begins periodic sync in a background goroutine.
// If disabled, this is a no-op.
func (p *PeriodicSync) Start(ctx context.Context) {
	if !p.enabled {
		p.logger.Info("periodic sync disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Go(func() {
		p.run(ctx)
	})

	p.logger.Info("periodic sync started", slog.Duration("interval", p.interval))
}

// Stop cancels the background goroutine and waits for it to finish.
func (p *PeriodicSync) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	p.logger.Info("periodic sync stopped")
}

func (p *PeriodicSync) run(ctx context.Context) {
	// Sync immediately on startup
	p.sync(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sync(ctx)
		}
	}
}

func (p *PeriodicSync) sync(ctx context.Context) {
	if p.syncer.Running() {
		return
	}
	if _, err := p.syncer.Run(ctx); err != nil {
		if errors.Is(err, ErrSyncInProgress) || errors.Is(err, context.Canceled) {
			return
		}
		p.logger.ErrorContext(ctx, "periodic sync failed", "error", err)
	}
}
