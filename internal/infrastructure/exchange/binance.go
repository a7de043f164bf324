package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vitos/market_viewer/internal/domain"
)

const (
	BinanceSpotURL    = "https://api.binance.com/api/v3"
	BinanceFuturesURL = "https://fapi.binance.com"
)

type binancePrice struct {
	Symbol string `json:"symbol"`
	Price  number `json:"price"`
}

// binanceFunding is one entry of the /fapi/v1/fundingRate history. The
// endpoint returns oldest first.
type binanceFunding struct {
	Symbol      string `json:"symbol"`
	FundingRate number `json:"fundingRate"`
	FundingTime int64  `json:"fundingTime"`
}

// BinanceAdapter combines the spot API, the USD-M futures ticker and the
// futures funding history. Spot and futures live on different hosts.
type BinanceAdapter struct {
	base
	spotURL    string
	futuresURL string
}

func NewBinanceAdapter(spotURL, futuresURL string, mapping *domain.SymbolMapping, opts Options) *BinanceAdapter {
	return &BinanceAdapter{
		base:       newBase(domain.ExchangeBinance, mapping, opts),
		spotURL:    trimBase(spotURL, BinanceSpotURL),
		futuresURL: trimBase(futuresURL, BinanceFuturesURL),
	}
}

func (a *BinanceAdapter) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	q, ok := a.resolve(symbol)
	if !ok {
		return q, nil
	}
	pair := url.QueryEscape(q.NativeSymbol)

	var spot, futures binancePrice
	var funding []binanceFunding
	err := fetchConcurrently(ctx,
		func(ctx context.Context) error {
			return a.rest.getJSON(ctx, "ticker/price", fmt.Sprintf("%s/ticker/price?symbol=%s", a.spotURL, pair), &spot)
		},
		func(ctx context.Context) error {
			return a.rest.getJSON(ctx, "fapi/ticker/price", fmt.Sprintf("%s/fapi/v1/ticker/price?symbol=%s", a.futuresURL, pair), &futures)
		},
		func(ctx context.Context) error {
			return a.rest.getJSON(ctx, "fapi/fundingRate", fmt.Sprintf("%s/fapi/v1/fundingRate?symbol=%s", a.futuresURL, pair), &funding)
		},
	)
	if err != nil {
		return a.failed(q, err)
	}

	q.SpotPrice = spot.Price.value()
	q.FuturesPrice = futures.Price.value()
	if len(funding) > 0 {
		q.FundingRatePct = funding[len(funding)-1].FundingRate.percent()
	}
	return q, nil
}
