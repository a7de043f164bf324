package exchange

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vitos/market_viewer/internal/domain"
)

// number decodes a numeric field that exchanges send either quoted
// ("0.5123") or bare (0.5123). Empty, null or unparseable input decodes
// to an absent number instead of failing the whole payload.
type number struct {
	d  decimal.Decimal
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = number{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		*n = number{}
		return nil
	}
	*n = number{d: d, ok: true}
	return nil
}

func (n number) value() domain.Value {
	if !n.ok {
		return domain.Value{}
	}
	return domain.Some(n.d.InexactFloat64())
}

// percent scales a fraction to a percentage. The shift is exact, so a raw
// 0.0001 becomes exactly 0.01.
func (n number) percent() domain.Value {
	if !n.ok {
		return domain.Value{}
	}
	return domain.Some(n.d.Shift(2).InexactFloat64())
}
