package domain

// FetchStatus tells a renderer why a cell may hold a default 0.
type FetchStatus string

const (
	StatusOK       FetchStatus = "ok"
	StatusFailed   FetchStatus = "failed"
	StatusUnmapped FetchStatus = "unmapped"
)

// PriceRecord is the per-symbol aggregate produced once per poll cycle.
// Every map holds an entry for each queried exchange; numeric entries
// default to 0 when the exchange had nothing to report.
type PriceRecord struct {
	Symbol         string                     `json:"symbol"`
	SpotPrice      map[ExchangeID]float64     `json:"spot_price"`
	FuturesPrice   map[ExchangeID]float64     `json:"futures_price"`
	SpreadPct      map[ExchangeID]float64     `json:"spread_pct"`
	FundingRatePct map[ExchangeID]float64     `json:"funding_rate_pct"`
	Status         map[ExchangeID]FetchStatus `json:"status"`
	CapturedAt     int64                      `json:"captured_at"` // epoch millis
}

// NewPriceRecord returns a record with every exchange zeroed and marked failed.
func NewPriceRecord(symbol string, exchanges []ExchangeID) *PriceRecord {
	r := &PriceRecord{
		Symbol:         symbol,
		SpotPrice:      make(map[ExchangeID]float64, len(exchanges)),
		FuturesPrice:   make(map[ExchangeID]float64, len(exchanges)),
		SpreadPct:      make(map[ExchangeID]float64, len(exchanges)),
		FundingRatePct: make(map[ExchangeID]float64, len(exchanges)),
		Status:         make(map[ExchangeID]FetchStatus, len(exchanges)),
	}
	for _, ex := range exchanges {
		r.SpotPrice[ex] = 0
		r.FuturesPrice[ex] = 0
		r.SpreadPct[ex] = 0
		r.FundingRatePct[ex] = 0
		r.Status[ex] = StatusFailed
	}
	return r
}
