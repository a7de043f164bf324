package exchange

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/market_viewer/internal/domain"
)

func binanceServer(t *testing.T, funding http.HandlerFunc) *fakeExchange {
	return newFakeExchange(t, map[string]http.HandlerFunc{
		"/ticker/price":         body(`{"symbol":"DOGEUSDT","price":"0.08210000"}`),
		"/fapi/v1/ticker/price": body(`{"symbol":"DOGEUSDT","price":"0.08215","time":1700000000000}`),
		"/fapi/v1/fundingRate":  funding,
	})
}

func TestBinanceAdapter_Fetch(t *testing.T) {
	srv := binanceServer(t, body(`[
		{"symbol":"DOGEUSDT","fundingRate":"0.00030000","fundingTime":1699977600000},
		{"symbol":"DOGEUSDT","fundingRate":"0.00010000","fundingTime":1700006400000}
	]`))
	a := NewBinanceAdapter(srv.URL, srv.URL, testMapping(), testOptions(time.Second))

	q, err := a.Fetch(context.Background(), "DOGE")
	require.NoError(t, err)

	assert.Equal(t, "DOGEUSDT", q.NativeSymbol)
	assert.Equal(t, domain.Some(0.0821), q.SpotPrice)
	assert.Equal(t, domain.Some(0.08215), q.FuturesPrice)
	// most recent entry is last
	assert.Equal(t, domain.Some(0.01), q.FundingRatePct)
	assert.EqualValues(t, 3, srv.hits.Load())
}

func TestBinanceAdapter_EmptyFundingHistory(t *testing.T) {
	srv := binanceServer(t, body(`[]`))
	a := NewBinanceAdapter(srv.URL, srv.URL, testMapping(), testOptions(time.Second))

	q, err := a.Fetch(context.Background(), "DOGE")
	require.NoError(t, err)
	assert.False(t, q.FundingRatePct.Valid)
	assert.True(t, q.SpotPrice.Valid)
}

func TestBinanceAdapter_FuturesErrorFailsQuote(t *testing.T) {
	srv := binanceServer(t, status(http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`))
	a := NewBinanceAdapter(srv.URL, srv.URL, testMapping(), testOptions(time.Second))

	q, err := a.Fetch(context.Background(), "DOGE")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "fapi/fundingRate", reqErr.Endpoint)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.False(t, q.SpotPrice.Valid)
	assert.False(t, q.FuturesPrice.Valid)
}

func TestBinanceAdapter_SeparateHosts(t *testing.T) {
	spot := newFakeExchange(t, map[string]http.HandlerFunc{
		"/ticker/price": body(`{"symbol":"XRPUSDT","price":"0.5"}`),
	})
	futures := newFakeExchange(t, map[string]http.HandlerFunc{
		"/fapi/v1/ticker/price": body(`{"symbol":"XRPUSDT","price":"0.55"}`),
		"/fapi/v1/fundingRate":  body(`[{"symbol":"XRPUSDT","fundingRate":"-0.0002"}]`),
	})
	a := NewBinanceAdapter(spot.URL+"/", futures.URL, testMapping(), testOptions(time.Second))

	q, err := a.Fetch(context.Background(), "XRP")
	require.NoError(t, err)
	assert.Equal(t, 0.5, q.SpotPrice.Float)
	assert.Equal(t, 0.55, q.FuturesPrice.Float)
	assert.Equal(t, -0.02, q.FundingRatePct.Float)
	assert.EqualValues(t, 1, spot.hits.Load())
	assert.EqualValues(t, 2, futures.hits.Load())
}
