package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vitos/market_viewer/internal/domain"
)

const BitgetBaseURL = "https://api.bitget.com"

const (
	bitgetSpotSuffix    = "USDT"
	bitgetFuturesSuffix = "USDT_UMCBL"
	bitgetSuccessCode   = "00000"
)

type bitgetTicker struct {
	Symbol string `json:"symbol"`
	Last   number `json:"last"`
	Close  number `json:"close"`
}

type bitgetFunding struct {
	Symbol      string `json:"symbol"`
	FundingRate number `json:"fundingRate"`
}

type bitgetResponse[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data *T     `json:"data"`
}

// BitgetAdapter uses the v1 spot and mix (USDT-M) market endpoints. The
// mapping stores the base coin; market suffixes are added per endpoint.
type BitgetAdapter struct {
	base
	baseURL string
}

func NewBitgetAdapter(baseURL string, mapping *domain.SymbolMapping, opts Options) *BitgetAdapter {
	return &BitgetAdapter{
		base:    newBase(domain.ExchangeBitget, mapping, opts),
		baseURL: trimBase(baseURL, BitgetBaseURL),
	}
}

func (a *BitgetAdapter) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	q, ok := a.resolve(symbol)
	if !ok {
		return q, nil
	}
	spotPair := url.QueryEscape(q.NativeSymbol + bitgetSpotSuffix)
	mixPair := url.QueryEscape(q.NativeSymbol + bitgetFuturesSuffix)

	var spot, futures bitgetResponse[bitgetTicker]
	var funding bitgetResponse[bitgetFunding]
	err := fetchConcurrently(ctx,
		func(ctx context.Context) error {
			return getBitget(ctx, a, "spot/ticker", fmt.Sprintf("%s/api/spot/v1/market/ticker?symbol=%s", a.baseURL, spotPair), &spot)
		},
		func(ctx context.Context) error {
			return getBitget(ctx, a, "mix/ticker", fmt.Sprintf("%s/api/mix/v1/market/ticker?symbol=%s", a.baseURL, mixPair), &futures)
		},
		func(ctx context.Context) error {
			return getBitget(ctx, a, "mix/current-fundrate", fmt.Sprintf("%s/api/mix/v1/market/current-fundrate?symbol=%s", a.baseURL, mixPair), &funding)
		},
	)
	if err != nil {
		return a.failed(q, err)
	}

	if spot.Data != nil {
		q.SpotPrice = spot.Data.price()
	}
	if futures.Data != nil {
		q.FuturesPrice = futures.Data.price()
	}
	if funding.Data != nil {
		q.FundingRatePct = funding.Data.FundingRate.percent()
	}
	return q, nil
}

// price prefers "last" and falls back to "close"; the spot ticker reports
// the latest trade under close.
func (t *bitgetTicker) price() domain.Value {
	if v := t.Last.value(); v.Valid {
		return v
	}
	return t.Close.value()
}

func getBitget[T any](ctx context.Context, a *BitgetAdapter, endpoint, u string, out *bitgetResponse[T]) error {
	if err := a.rest.getJSON(ctx, endpoint, u, out); err != nil {
		return err
	}
	if out.Code != "" && out.Code != bitgetSuccessCode {
		return a.rest.rejected(endpoint, fmt.Errorf("bitget api error %s: %s", out.Code, out.Msg))
	}
	return nil
}
