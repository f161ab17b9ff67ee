package capgains

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Money represents a monetary value.
//
// The currency is optional: trades are decoded without one and take the
// currency of whatever they are combined with.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M builds a Money value in the given currency ("" for none).
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// String returns the money formatted for its currency, or with two decimals
// when no currency is attached.
func (m Money) String() string {
	if m.cur == "" || money.GetCurrency(m.cur) == nil {
		return m.value.StringFixed(2)
	}
	cur := money.New(0, m.cur).Currency()
	dec := m.value.Shift(int32(cur.Fraction))
	// go-money formats minor units as an int64.
	if dec.GreaterThan(maxMinorUnits) || dec.LessThan(maxMinorUnits.Neg()) {
		return m.value.StringFixed(2) + " " + m.cur
	}
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string             { return m.cur }
func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThanOrEqual(n Money) bool { return m.value.LessThanOrEqual(n.value) }
func (m Money) Abs() Money                   { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money         { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money         { return Money{value: m.value.Div(q.value), cur: m.cur} }
func (m Money) Scale(r Rate) Money           { return Money{value: m.value.Mul(r.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// In returns the same amount tagged with currency.
func (m Money) In(currency string) Money { return Money{value: m.value, cur: currency} }

// Trunc drops the fractional part, toward zero. It never overflows.
func (m Money) Trunc() Money { return Money{value: m.value.Truncate(0), cur: m.cur} }

// IsInt tells whether the amount has no fractional part.
func (m Money) IsInt() bool { return m.value.Equal(m.value.Truncate(0)) }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// MarshalJSON writes the amount as a bare JSON number with full precision.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}
