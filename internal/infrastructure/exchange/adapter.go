package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// Endpoints holds the base URLs an adapter talks to. Empty fields fall back
// to the exchange's public production hosts.
type Endpoints struct {
	SpotURL    string
	FuturesURL string
}

// Options carries the collaborators every adapter shares.
type Options struct {
	HTTPClient *http.Client
	Client     ClientConfig
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// New builds the adapter for id.
func New(id domain.ExchangeID, ep Endpoints, mapping *domain.SymbolMapping, opts Options) (domain.ExchangeAdapter, error) {
	switch id {
	case domain.ExchangeBybit:
		return NewBybitAdapter(ep.SpotURL, mapping, opts), nil
	case domain.ExchangeBinance:
		return NewBinanceAdapter(ep.SpotURL, ep.FuturesURL, mapping, opts), nil
	case domain.ExchangeBitget:
		return NewBitgetAdapter(ep.SpotURL, mapping, opts), nil
	case domain.ExchangeUpbit:
		return NewUpbitAdapter(ep.SpotURL, mapping, opts), nil
	default:
		return nil, fmt.Errorf("no adapter for exchange %q", id)
	}
}

// base holds what all four adapters have in common: symbol resolution,
// the REST client and failure reporting.
type base struct {
	id      domain.ExchangeID
	mapping *domain.SymbolMapping
	rest    *restClient
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func newBase(id domain.ExchangeID, mapping *domain.SymbolMapping, opts Options) base {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		id:      id,
		mapping: mapping,
		rest:    newRESTClient(id, opts.HTTPClient, opts.Client, opts.Metrics),
		logger:  logger.With(zap.String("exchange", string(id))),
		metrics: opts.Metrics,
	}
}

func (b *base) ID() domain.ExchangeID { return b.id }

// resolve starts a quote for symbol. ok is false when the symbol has no
// native id here, meaning there is nothing to fetch.
func (b *base) resolve(symbol string) (q domain.Quote, ok bool) {
	q = domain.Quote{Exchange: b.id, Symbol: symbol}
	native, ok := b.mapping.Lookup(symbol, b.id)
	if !ok {
		b.logger.Debug("Symbol not mapped, skipping", zap.String("symbol", symbol))
		return q, false
	}
	q.NativeSymbol = native
	return q, true
}

// failed logs and counts a whole-quote failure. The returned quote carries
// no values.
func (b *base) failed(q domain.Quote, err error) (domain.Quote, error) {
	b.logger.Warn("Exchange fetch failed",
		zap.String("symbol", q.Symbol),
		zap.String("native_symbol", q.NativeSymbol),
		zap.Error(err))
	b.metrics.AdapterFailure(string(b.id))
	return domain.Quote{Exchange: q.Exchange, Symbol: q.Symbol, NativeSymbol: q.NativeSymbol}, err
}

// fetchConcurrently runs the sub-requests of one quote side by side. The
// first failure cancels the others and is returned once all have exited.
func fetchConcurrently(ctx context.Context, calls ...func(ctx context.Context) error) error {
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, call := range calls {
		p.Go(call)
	}
	return p.Wait()
}

func trimBase(u, fallback string) string {
	if u == "" {
		u = fallback
	}
	return strings.TrimRight(u, "/")
}
