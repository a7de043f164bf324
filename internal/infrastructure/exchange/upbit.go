package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vitos/market_viewer/internal/domain"
)

const UpbitBaseURL = "https://api.upbit.com/v1"

type upbitTicker struct {
	Market     string `json:"market"`
	TradePrice number `json:"trade_price"`
	Timestamp  int64  `json:"timestamp"`
}

// UpbitAdapter reads the KRW spot ticker. Upbit has no derivatives market,
// so futures and funding stay absent.
type UpbitAdapter struct {
	base
	baseURL string
}

func NewUpbitAdapter(baseURL string, mapping *domain.SymbolMapping, opts Options) *UpbitAdapter {
	return &UpbitAdapter{
		base:    newBase(domain.ExchangeUpbit, mapping, opts),
		baseURL: trimBase(baseURL, UpbitBaseURL),
	}
}

func (a *UpbitAdapter) Fetch(ctx context.Context, symbol string) (domain.Quote, error) {
	q, ok := a.resolve(symbol)
	if !ok {
		return q, nil
	}

	var tickers []upbitTicker
	u := fmt.Sprintf("%s/ticker?markets=%s", a.baseURL, url.QueryEscape(q.NativeSymbol))
	if err := a.rest.getJSON(ctx, "ticker", u, &tickers); err != nil {
		return a.failed(q, err)
	}

	if len(tickers) > 0 {
		q.SpotPrice = tickers[0].TradePrice.value()
	}
	return q, nil
}
