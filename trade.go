package capgains

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Trade is one buy or sell of units at a unit cost.
// A Trade is immutable once built.
type Trade struct {
	operation Operation
	unitCost  Money
	quantity  Quantity
}

// NewTrade creates a new Trade.
func NewTrade(operation Operation, unitCost Money, quantity Quantity) Trade {
	return Trade{operation: operation, unitCost: unitCost, quantity: quantity}
}

// NewBuy creates a buy of quantity units at unitCost each.
func NewBuy(unitCost, quantity float64) Trade {
	return NewTrade(Buy, M(unitCost, ""), Q(quantity))
}

// NewSell creates a sell of quantity units at unitCost each.
func NewSell(unitCost, quantity float64) Trade {
	return NewTrade(Sell, M(unitCost, ""), Q(quantity))
}

func (t Trade) Operation() Operation { return t.operation }
func (t Trade) UnitCost() Money      { return t.unitCost }
func (t Trade) Quantity() Quantity   { return t.quantity }

// Notional returns the trade value, quantity times unit cost.
func (t Trade) Notional() Money { return t.unitCost.Mul(t.quantity) }

// Profit returns the gain of selling this trade's units at its unit cost when
// they were bought at average. It is negative for a loss.
func (t Trade) Profit(average Money) Money {
	return t.unitCost.Sub(average).Mul(t.quantity)
}

func (t Trade) Equal(o Trade) bool {
	return t.operation == o.operation && t.unitCost.Equal(o.unitCost) && t.quantity.Equal(o.quantity)
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s @ %s", t.operation, t.quantity, t.unitCost)
}

// Validate checks the trade fields: a known operation and non-negative numbers.
func (t Trade) Validate() error {
	if t.operation != Buy && t.operation != Sell {
		return fmt.Errorf("unknown operation %d", int(t.operation))
	}
	if t.unitCost.IsNegative() {
		return fmt.Errorf("%s unit-cost must not be negative, got %s", t.operation, t.unitCost)
	}
	if t.quantity.IsNegative() {
		return fmt.Errorf("%s quantity must not be negative, got %s", t.operation, t.quantity)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("operation", t.operation)
	w.Append("unit-cost", t.unitCost)
	w.Append("quantity", t.quantity)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Trade.
// All three fields are required, numbers must be JSON numbers, and unknown
// fields are ignored.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var temp struct {
		Operation *Operation `json:"operation"`
		UnitCost  *float64   `json:"unit-cost"`
		Quantity  *float64   `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	switch {
	case temp.Operation == nil:
		return errors.New("missing field \"operation\"")
	case temp.UnitCost == nil:
		return errors.New("missing field \"unit-cost\"")
	case temp.Quantity == nil:
		return errors.New("missing field \"quantity\"")
	}

	v := NewTrade(*temp.Operation, M(*temp.UnitCost, ""), Q(*temp.Quantity))
	if err := v.Validate(); err != nil {
		return err
	}
	*t = v
	return nil
}
