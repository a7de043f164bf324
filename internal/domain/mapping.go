package domain

// SymbolMapping translates a canonical symbol ("XRP") into each exchange's
// native instrument id. It is built once at startup and never mutated.
type SymbolMapping struct {
	entries map[string]map[ExchangeID]string
}

func NewSymbolMapping(entries map[string]map[ExchangeID]string) *SymbolMapping {
	m := &SymbolMapping{entries: make(map[string]map[ExchangeID]string, len(entries))}
	for symbol, byExchange := range entries {
		inner := make(map[ExchangeID]string, len(byExchange))
		for ex, native := range byExchange {
			if native == "" {
				continue
			}
			inner[ex] = native
		}
		m.entries[symbol] = inner
	}
	return m
}

// Lookup returns the native id of symbol on exchange. A missing entry is
// reported through ok and is not an error.
func (m *SymbolMapping) Lookup(symbol string, exchange ExchangeID) (native string, ok bool) {
	if m == nil {
		return "", false
	}
	native, ok = m.entries[symbol][exchange]
	return native, ok
}

// Table returns a copy of the mapping, suitable for layering overrides.
func (m *SymbolMapping) Table() map[string]map[ExchangeID]string {
	out := make(map[string]map[ExchangeID]string)
	if m == nil {
		return out
	}
	for symbol, byExchange := range m.entries {
		inner := make(map[ExchangeID]string, len(byExchange))
		for ex, native := range byExchange {
			inner[ex] = native
		}
		out[symbol] = inner
	}
	return out
}

// DefaultSymbolMapping covers the symbols the viewer ships with. Bitget ids
// are base coins; the adapter appends the market suffix.
func DefaultSymbolMapping() *SymbolMapping {
	return NewSymbolMapping(map[string]map[ExchangeID]string{
		"XRP": {
			ExchangeBybit:   "XRPUSDT",
			ExchangeBinance: "XRPUSDT",
			ExchangeBitget:  "XRP",
			ExchangeUpbit:   "KRW-XRP",
		},
		"DOGE": {
			ExchangeBybit:   "DOGEUSDT",
			ExchangeBinance: "DOGEUSDT",
			ExchangeBitget:  "DOGE",
			ExchangeUpbit:   "KRW-DOGE",
		},
		"AIXBT": {
			ExchangeBybit:   "AIXBTUSDT",
			ExchangeBinance: "AIXBTUSDT",
			ExchangeBitget:  "AIXBT",
			ExchangeUpbit:   "KRW-AIXBT",
		},
	})
}
