// Package metrics exposes the viewer's Prometheus instruments:
//
//	market_viewer_exchange_requests_total{exchange,endpoint,outcome}
//	market_viewer_exchange_request_duration_seconds{exchange,endpoint}
//	market_viewer_adapter_failures_total{exchange}
//	market_viewer_symbols_dropped_total
//	market_viewer_poll_duration_seconds
//	market_viewer_last_poll_timestamp_seconds
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "market_viewer"

const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	// the local limiter gave up before the request was sent
	OutcomeRateLimited = "rate_limited"
)

type Metrics struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	adapterFails   *prometheus.CounterVec
	symbolsDropped prometheus.Counter
	pollDuration   prometheus.Histogram
	lastPoll       prometheus.Gauge
}

// New registers all instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_requests_total",
			Help:      "Outbound exchange REST requests by outcome.",
		}, []string{"exchange", "endpoint", "outcome"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_request_duration_seconds",
			Help:      "Latency of outbound exchange REST requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"exchange", "endpoint"}),
		adapterFails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_failures_total",
			Help:      "Symbol fetches that failed as a whole on an exchange.",
		}, []string{"exchange"}),
		symbolsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "symbols_dropped_total",
			Help:      "Symbols omitted from a poll cycle because their record could not be assembled.",
		}),
		pollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Wall time of one full poll cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		lastPoll: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_poll_timestamp_seconds",
			Help:      "Unix time of the last completed poll cycle.",
		}),
	}
}

func (m *Metrics) ObserveRequest(exchange, endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(exchange, endpoint, outcome).Inc()
	m.requestLatency.WithLabelValues(exchange, endpoint).Observe(d.Seconds())
}

func (m *Metrics) AdapterFailure(exchange string) {
	if m == nil {
		return
	}
	m.adapterFails.WithLabelValues(exchange).Inc()
}

func (m *Metrics) SymbolDropped() {
	if m == nil {
		return
	}
	m.symbolsDropped.Inc()
}

func (m *Metrics) PollCompleted(at time.Time, d time.Duration) {
	if m == nil {
		return
	}
	m.pollDuration.Observe(d.Seconds())
	m.lastPoll.Set(float64(at.Unix()))
}
