package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// Poller drives one FetchAll per interval and publishes the result.
type Poller struct {
	fetcher  domain.PriceFetcher
	board    *Board
	symbols  []string
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	running  atomic.Bool
	timeNow  func() time.Time // For testing
}

func NewPoller(fetcher domain.PriceFetcher, board *Board, symbols []string, interval time.Duration, logger *zap.Logger, m *metrics.Metrics) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		fetcher:  fetcher,
		board:    board,
		symbols:  append([]string(nil), symbols...),
		interval: interval,
		logger:   logger,
		metrics:  m,
		timeNow:  time.Now,
	}
}

// Run polls immediately and then on every tick until ctx is done. A tick
// that arrives while the previous cycle is still in flight is skipped.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Poller started",
		zap.Strings("symbols", p.symbols),
		zap.Duration("interval", p.interval))

	var wg conc.WaitGroup
	defer wg.Wait()

	p.tryPoll(ctx, &wg)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.tryPoll(ctx, &wg)
		}
	}
}

func (p *Poller) tryPoll(ctx context.Context, wg *conc.WaitGroup) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Warn("Previous poll still running, skipping tick")
		return
	}
	wg.Go(func() {
		defer p.running.Store(false)
		p.PollOnce(ctx)
	})
}

// PollOnce runs a single cycle, publishes it and returns it.
func (p *Poller) PollOnce(ctx context.Context) Snapshot {
	cycleID := uuid.NewString()
	start := time.Now()

	records := p.fetcher.FetchAll(ctx, p.symbols)

	snap := Snapshot{
		CycleID:   cycleID,
		UpdatedAt: p.timeNow(),
		Records:   records,
	}
	if ctx.Err() != nil {
		// shutting down; a half-cancelled cycle is all zeros
		p.logger.Debug("Poll cancelled", zap.String("cycle_id", cycleID))
		return snap
	}
	p.board.Publish(snap)

	elapsed := time.Since(start)
	p.metrics.PollCompleted(snap.UpdatedAt, elapsed)
	p.logger.Debug("Poll completed",
		zap.String("cycle_id", cycleID),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", elapsed))
	return snap
}
