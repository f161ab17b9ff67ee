package renderer

import (
	"github.com/etnz/capgains"
)

// Replay is the printable view of a replayed batch.
type Replay struct {
	ExemptionThreshold string
	TaxRate            string
	Rows               []ReplayRow
	TotalTax           string
}

// ReplayRow is one trade of a Replay and the position after it.
type ReplayRow struct {
	Index        int
	Operation    string
	Quantity     string
	UnitCost     string
	Held         string
	AveragePrice string
	Deficit      string
	Tax          string // as owed, truncated
}

// NewReplay builds the view of steps replayed under rules.
// Amounts are shown in the rules currency.
func NewReplay(rules capgains.Rules, steps []capgains.Step) *Replay {
	cur := rules.Currency()
	r := &Replay{
		ExemptionThreshold: rules.ExemptionThreshold.String(),
		TaxRate:            rules.TaxRate.String(),
		Rows:               make([]ReplayRow, 0, len(steps)),
	}
	for i, s := range steps {
		r.Rows = append(r.Rows, ReplayRow{
			Index:        i + 1,
			Operation:    s.Trade.Operation().String(),
			Quantity:     s.Trade.Quantity().String(),
			UnitCost:     s.Trade.UnitCost().In(cur).String(),
			Held:         s.Position.Quantity.String(),
			AveragePrice: s.Position.AveragePrice.In(cur).String(),
			Deficit:      s.Position.Deficit.In(cur).String(),
			Tax:          s.Tax.Truncated().In(cur).String(),
		})
	}
	r.TotalTax = capgains.TotalTax(steps, cur).String()
	return r
}

// RenderReplay renders the Replay to a markdown string.
func RenderReplay(r *Replay) string {
	partials := map[string]string{
		"replay_title":  "replay_title.md",
		"replay_rules":  "replay_rules.md",
		"replay_trades": "replay_trades.md",
	}
	return renderTemplate("replay", "replay.md", partials, r)
}

// ReplayMarkdown renders steps replayed under rules.
func ReplayMarkdown(rules capgains.Rules, steps []capgains.Step) string {
	return RenderReplay(NewReplay(rules, steps))
}
