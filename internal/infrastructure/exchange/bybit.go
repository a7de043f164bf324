package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vitos/market_viewer/internal/domain"
)

const BybitBaseURL = "https://api.bybit.com/v5"

// bybitTickers is the V5 /market/tickers envelope. Spot and linear share it;
// only linear tickers carry fundingRate.
type bybitTickers struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string `json:"category"`
		List     []struct {
			Symbol      string `json:"symbol"`
			LastPrice   number `json:"lastPrice"`
			FundingRate number `json:"fundingRate"`
		} `json:"list"`
	} `json:"result"`
}

// BybitAdapter reads spot and linear tickers from Bybit V5. The funding
// rate comes from the linear ticker, so two requests cover all fields.
type BybitAdapter struct {
	base
	baseURL string
}

func NewBybitAdapter(baseURL string, mapping *domain.SymbolMapping, opts Options) *BybitAdapter {
	return &BybitAdapter{
		base:    newBase(domain.ExchangeBybit, mapping, opts),
		baseURL: trimBase(baseURL, BybitBaseURL),
	}
}

func (a *BybitAdapter) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	q, ok := a.resolve(symbol)
	if !ok {
		return q, nil
	}

	var spot, linear bybitTickers
	err := fetchConcurrently(ctx,
		func(ctx context.Context) error { return a.tickers(ctx, "spot", q.NativeSymbol, &spot) },
		func(ctx context.Context) error { return a.tickers(ctx, "linear", q.NativeSymbol, &linear) },
	)
	if err != nil {
		return a.failed(q, err)
	}

	if len(spot.Result.List) > 0 {
		q.SpotPrice = spot.Result.List[0].LastPrice.value()
	}
	if len(linear.Result.List) > 0 {
		t := linear.Result.List[0]
		q.FuturesPrice = t.LastPrice.value()
		q.FundingRatePct = t.FundingRate.percent()
	}
	return q, nil
}

func (a *BybitAdapter) tickers(ctx context.Context, category, native string, out *bybitTickers) error {
	endpoint := "tickers/" + category
	u := fmt.Sprintf("%s/market/tickers?category=%s&symbol=%s", a.baseURL, category, url.QueryEscape(native))
	if err := a.rest.getJSON(ctx, endpoint, u, out); err != nil {
		return err
	}
	if out.RetCode != 0 {
		return a.rest.rejected(endpoint, fmt.Errorf("bybit api error %d: %s", out.RetCode, out.RetMsg))
	}
	return nil
}
