package domain

import "context"

// ExchangeAdapter fetches one exchange's quote for a canonical symbol.
// An unmapped symbol yields an empty Quote and a nil error.
type ExchangeAdapter interface {
	ID() ExchangeID
	Fetch(ctx context.Context, symbol string) (Quote, error)
}

// PriceFetcher is what the poller drives once per refresh tick.
type PriceFetcher interface {
	FetchAll(ctx context.Context, symbols []string) []*PriceRecord
}
