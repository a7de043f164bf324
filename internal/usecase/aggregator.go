package usecase

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/panics"
	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

type AggregatorOptions struct {
	// SymbolConcurrency bounds how many symbols are fetched at once.
	// Values below 2 fetch symbols one after another.
	SymbolConcurrency int
}

// Aggregator merges every adapter's quote for a symbol into one
// PriceRecord. Adapter failures never surface to the caller; they show up
// as zeroed fields with a failed status.
type Aggregator struct {
	adapters    []domain.ExchangeAdapter
	exchanges   []domain.ExchangeID
	logger      *zap.Logger
	metrics     *metrics.Metrics
	concurrency int
	timeNow     func() time.Time // For testing
}

func NewAggregator(adapters []domain.ExchangeAdapter, logger *zap.Logger, m *metrics.Metrics, opts AggregatorOptions) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	exchanges := make([]domain.ExchangeID, len(adapters))
	for i, a := range adapters {
		exchanges[i] = a.ID()
	}
	concurrency := opts.SymbolConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{
		adapters:    adapters,
		exchanges:   exchanges,
		logger:      logger,
		metrics:     m,
		concurrency: concurrency,
		timeNow:     time.Now,
	}
}

// Exchanges returns the venues this aggregator queries, in display order.
func (a *Aggregator) Exchanges() []domain.ExchangeID {
	return append([]domain.ExchangeID(nil), a.exchanges...)
}

// FetchAll returns one record per symbol in input order. A symbol whose
// record cannot be assembled is logged and left out.
func (a *Aggregator) FetchAll(ctx context.Context, symbols []string) []*domain.PriceRecord {
	mapper := iter.Mapper[string, *domain.PriceRecord]{MaxGoroutines: a.concurrency}
	results := mapper.Map(symbols, func(symbol *string) *domain.PriceRecord {
		return a.fetchSymbol(ctx, *symbol)
	})

	records := make([]*domain.PriceRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	return records
}

func (a *Aggregator) fetchSymbol(ctx context.Context, symbol string) *domain.PriceRecord {
	var (
		record *domain.PriceRecord
		pc     panics.Catcher
	)
	pc.Try(func() {
		quotes, errs := a.fetchQuotes(ctx, symbol)
		record = a.assemble(symbol, quotes, errs)
	})
	if r := pc.Recovered(); r != nil {
		a.logger.Error("Failed to build price record, dropping symbol",
			zap.String("symbol", symbol),
			zap.Error(r.AsError()))
		a.metrics.SymbolDropped()
		return nil
	}
	return record
}

// fetchQuotes calls every adapter concurrently and waits for all of them.
// Results are indexed like a.adapters, so no locking is needed.
func (a *Aggregator) fetchQuotes(ctx context.Context, symbol string) ([]domain.Quote, []error) {
	quotes := make([]domain.Quote, len(a.adapters))
	errs := make([]error, len(a.adapters))

	var wg conc.WaitGroup
	for i, adapter := range a.adapters {
		wg.Go(func() {
			quotes[i], errs[i] = adapter.Fetch(ctx, symbol)
		})
	}
	wg.Wait()

	return quotes, errs
}

func (a *Aggregator) assemble(symbol string, quotes []domain.Quote, errs []error) *domain.PriceRecord {
	record := domain.NewPriceRecord(symbol, a.exchanges)

	for i, q := range quotes {
		ex := a.exchanges[i]

		switch {
		case errs[i] != nil:
			// adapter already logged it
			record.Status[ex] = domain.StatusFailed
			continue
		case !q.Mapped():
			record.Status[ex] = domain.StatusUnmapped
			continue
		}

		spot := q.SpotPrice.OrZero()
		futures := q.FuturesPrice.OrZero()
		funding := q.FundingRatePct.OrZero()
		if !ex.HasDerivatives() {
			futures, funding = 0, 0
		}

		record.SpotPrice[ex] = spot
		record.FuturesPrice[ex] = futures
		record.FundingRatePct[ex] = funding
		record.SpreadPct[ex] = Spread(spot, futures)
		record.Status[ex] = domain.StatusOK
	}

	record.CapturedAt = a.timeNow().UnixMilli()
	return record
}
