package capgains

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Tax is the tax owed on a single trade.
//
// The amount keeps its full precision; it is truncated toward zero only when
// it leaves the package, through Truncated or MarshalJSON. The truncation is
// lossy: decoding a marshaled Tax never recovers the fractional part.
type Tax struct {
	amount Money
}

// NewTax creates a Tax of amount.
func NewTax(amount Money) Tax { return Tax{amount: amount} }

// Amount returns the exact tax amount.
func (t Tax) Amount() Money { return t.amount }

// Truncated returns the amount truncated toward zero, 12.99 being 12.
func (t Tax) Truncated() Money { return t.amount.Trunc() }

// Int returns Truncated as an int64. It wraps for taxes beyond the int64
// range; encoders use Truncated.
func (t Tax) Int() int64 { return t.amount.Trunc().value.IntPart() }

func (t Tax) IsZero() bool { return t.amount.IsZero() }

func (t Tax) String() string { return t.amount.String() }

// MarshalJSON writes {"tax":N} where N is the truncated amount.
func (t Tax) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("tax", t.Truncated())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Tax.
func (t *Tax) UnmarshalJSON(data []byte) error {
	var temp struct {
		Tax *json.Number `json:"tax"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.Tax == nil {
		return fmt.Errorf("missing field %q", "tax")
	}
	v, err := decimal.NewFromString(temp.Tax.String())
	if err != nil {
		return fmt.Errorf("invalid tax %s: %w", temp.Tax, err)
	}
	amount := M(v, "")
	if !amount.IsInt() {
		return fmt.Errorf("tax must be an integer, got %s", temp.Tax)
	}
	if amount.IsNegative() {
		return fmt.Errorf("tax must not be negative, got %s", temp.Tax)
	}
	t.amount = amount
	return nil
}
