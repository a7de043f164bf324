package domain

import (
	"fmt"
	"strings"
)

// ExchangeID identifies a venue the viewer polls.
type ExchangeID string

const (
	ExchangeBybit   ExchangeID = "bybit"
	ExchangeBinance ExchangeID = "binance"
	ExchangeBitget  ExchangeID = "bitget"
	ExchangeUpbit   ExchangeID = "upbit"
)

// Exchanges lists every supported venue in display order.
var Exchanges = []ExchangeID{ExchangeBybit, ExchangeBinance, ExchangeBitget, ExchangeUpbit}

func ParseExchangeID(s string) (ExchangeID, error) {
	id := ExchangeID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Exchanges {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown exchange %q", s)
}

// HasDerivatives reports whether the venue lists perpetual futures and
// publishes funding rates. Upbit is spot only.
func (e ExchangeID) HasDerivatives() bool {
	return e != ExchangeUpbit
}

// QuoteCurrency is the currency prices on this venue are denominated in.
func (e ExchangeID) QuoteCurrency() string {
	if e == ExchangeUpbit {
		return "KRW"
	}
	return "USDT"
}
