package domain

// Value is a numeric reading that may be absent. The zero Value is absent,
// which keeps "not fetched" apart from a price that really is 0.
type Value struct {
	Float float64
	Valid bool
}

func Some(f float64) Value {
	return Value{Float: f, Valid: true}
}

// OrZero returns the reading, or 0 when absent.
func (v Value) OrZero() float64 {
	if !v.Valid {
		return 0
	}
	return v.Float
}

// Quote is one exchange's normalised view of a canonical symbol.
// NativeSymbol is empty when the symbol has no mapping on the exchange,
// in which case nothing was fetched.
type Quote struct {
	Exchange       ExchangeID
	Symbol         string
	NativeSymbol   string
	SpotPrice      Value
	FuturesPrice   Value
	FundingRatePct Value // percent per funding interval, already scaled x100
}

func (q Quote) Mapped() bool {
	return q.NativeSymbol != ""
}
