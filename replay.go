package capgains

import (
	"fmt"
)

// Step records one applied trade of a replay.
type Step struct {
	Trade    Trade
	Tax      Tax
	Position Position // position after the trade
}

// MarshalJSON implements the json.Marshaler interface for Step.
func (s Step) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("trade", s.Trade)
	w.Append("tax", s.Tax.Truncated())
	w.Append("position", s.Position)
	return w.MarshalJSON()
}

// Trace applies trades in order to a new Portfolio and records every step.
//
// The first trade the portfolio rejects aborts the whole replay: no step is
// returned and the error wraps both ErrInvalidOperation and the cause.
func Trace(rules Rules, trades []Trade) ([]Step, error) {
	p := NewPortfolio(rules)
	steps := make([]Step, 0, len(trades))
	for i, t := range trades {
		tax, err := p.Apply(t)
		if err != nil {
			return nil, fmt.Errorf("trade #%d (%s): %w: %w", i+1, t, ErrInvalidOperation, err)
		}
		steps = append(steps, Step{Trade: t, Tax: tax, Position: p.Position()})
	}
	return steps, nil
}

// Replay applies trades in order to a new Portfolio and returns one tax per
// trade. It fails as a whole like Trace.
func Replay(rules Rules, trades []Trade) ([]Tax, error) {
	steps, err := Trace(rules, trades)
	if err != nil {
		return nil, err
	}
	return Taxes(steps), nil
}

// Taxes extracts the taxes of steps.
func Taxes(steps []Step) []Tax {
	taxes := make([]Tax, len(steps))
	for i, s := range steps {
		taxes[i] = s.Tax
	}
	return taxes
}

// TotalTax sums the taxes of steps as they are reported, each truncated.
func TotalTax(steps []Step, currency string) Money {
	total := M(0, currency)
	for _, s := range steps {
		total = total.Add(s.Tax.Truncated())
	}
	return total
}
