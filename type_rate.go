package capgains

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is a fraction applied to an amount, 0.2 meaning 20%.
type Rate struct {
	value decimal.Decimal
}

// R builds a Rate from a fraction.
func R[T float64 | int | int64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

// ParseRate parses a fraction such as "0.2".
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return Rate{value: d}, nil
}

func (r Rate) Equal(s Rate) bool { return r.value.Equal(s.value) }
func (r Rate) IsNegative() bool  { return r.value.IsNegative() }
func (r Rate) exceedsOne() bool  { return r.value.GreaterThan(decimal.NewFromInt(1)) }
func (r Rate) Fraction() string  { return r.value.String() }

// String returns the rate as a percentage, e.g. "20.00%".
func (r Rate) String() string {
	return r.value.Shift(2).StringFixed(2) + "%"
}
