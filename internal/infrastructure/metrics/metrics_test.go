package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("bybit", "tickers/spot", OutcomeOK, 120*time.Millisecond)
	m.ObserveRequest("bybit", "tickers/spot", OutcomeOK, 80*time.Millisecond)
	m.ObserveRequest("bybit", "tickers/spot", OutcomeTimeout, 5*time.Second)
	m.ObserveRequest("bitget", "spot/ticker", OutcomeRateLimited, 0)
	m.AdapterFailure("upbit")
	m.SymbolDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("bybit", "tickers/spot", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("bybit", "tickers/spot", OutcomeTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("bitget", "spot/ticker", OutcomeRateLimited)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.adapterFails.WithLabelValues("upbit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.symbolsDropped))
}

func TestMetrics_PollCompleted(t *testing.T) {
	m := New(prometheus.NewRegistry())
	at := time.Unix(1700000000, 0)

	m.PollCompleted(at, 1500*time.Millisecond)

	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastPoll))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("bybit", "x", OutcomeOK, time.Second)
		m.AdapterFailure("bybit")
		m.SymbolDropped()
		m.PollCompleted(time.Now(), time.Second)
	})
}
