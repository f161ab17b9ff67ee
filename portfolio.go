package capgains

import (
	"fmt"
)

// Position is a snapshot of a Portfolio state.
type Position struct {
	Quantity     Quantity // units held
	Cost         Money    // residual book value of the units held
	AveragePrice Money    // weighted average purchase price, updated on buys only
	Deficit      Money    // losses carried forward against future gains
}

// MarshalJSON implements the json.Marshaler interface for Position.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("quantity", p.Quantity)
	w.Append("cost", p.Cost)
	w.Append("average-price", p.AveragePrice)
	w.Append("deficit", p.Deficit)
	return w.MarshalJSON()
}

// Portfolio tracks a single position under weighted average cost and computes
// the tax owed by each trade applied to it.
//
// A Portfolio is meant for one ordered replay. It is not safe for concurrent
// use; independent replays must each use their own Portfolio.
type Portfolio struct {
	rules Rules
	pos   Position
}

// NewPortfolio creates an empty Portfolio taxed according to rules.
func NewPortfolio(rules Rules) *Portfolio {
	zero := M(0, rules.Currency())
	return &Portfolio{
		rules: rules,
		pos: Position{
			Quantity:     Q(0),
			Cost:         zero,
			AveragePrice: zero,
			Deficit:      zero,
		},
	}
}

// Rules returns the rules the portfolio was created with.
func (p *Portfolio) Rules() Rules { return p.rules }

// Position returns the current state of the portfolio.
func (p *Portfolio) Position() Position { return p.pos }

// Apply executes a trade against the portfolio and returns the tax it owes.
//
// A sell of more units than held fails with ErrInsufficientPosition, and a
// trade priced in another currency than the portfolio fails with
// ErrCurrencyMismatch. Both leave the portfolio unchanged.
func (p *Portfolio) Apply(t Trade) (Tax, error) {
	if c, pc := t.UnitCost().Currency(), p.pos.Cost.Currency(); c != "" && pc != "" && c != pc {
		return Tax{}, fmt.Errorf("trade priced in %s, portfolio in %s: %w", c, pc, ErrCurrencyMismatch)
	}
	switch t.Operation() {
	case Buy:
		return p.buy(t), nil
	case Sell:
		return p.sell(t)
	default:
		return Tax{}, fmt.Errorf("unsupported operation %v", t.Operation())
	}
}

func (p *Portfolio) buy(t Trade) Tax {
	p.pos.Cost = p.pos.Cost.Add(t.Notional())
	p.pos.Quantity = p.pos.Quantity.Add(t.Quantity())
	// a zero-unit buy on an empty position leaves nothing to average.
	if p.pos.Quantity.IsPositive() {
		p.pos.AveragePrice = p.pos.Cost.Div(p.pos.Quantity)
	}
	return NewTax(M(0, p.rules.Currency()))
}

func (p *Portfolio) sell(t Trade) (Tax, error) {
	if p.pos.Quantity.LessThan(t.Quantity()) {
		return Tax{}, fmt.Errorf("cannot sell %s units, position is only %s: %w", t.Quantity(), p.pos.Quantity, ErrInsufficientPosition)
	}

	p.pos.Quantity = p.pos.Quantity.Sub(t.Quantity())
	// Book value is reduced by the sale proceeds, not by the average cost of
	// the units sold. The average price is not affected.
	p.pos.Cost = p.pos.Cost.Sub(t.Notional())

	zero := NewTax(M(0, p.rules.Currency()))
	profit := t.Profit(p.pos.AveragePrice)
	switch {
	case profit.IsNegative():
		p.pos.Deficit = p.pos.Deficit.Add(profit.Abs())
		return zero, nil
	case profit.LessThanOrEqual(p.pos.Deficit):
		p.pos.Deficit = p.pos.Deficit.Sub(profit)
		return zero, nil
	default:
		taxable := profit.Sub(p.pos.Deficit)
		p.pos.Deficit = M(0, p.rules.Currency())
		return NewTax(p.rules.tax(t.Notional(), taxable)), nil
	}
}
