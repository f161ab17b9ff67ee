package capgains

import (
	"errors"
	"slices"
	"testing"
)

func TestPortfolio_Buy(t *testing.T) {
	p := NewPortfolio(DefaultRules())
	tax, err := p.Apply(buy(10, 10))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !tax.IsZero() {
		t.Errorf("buy tax = %v, want 0", tax)
	}
	pos := p.Position()
	if !pos.Quantity.Equal(Q(10)) {
		t.Errorf("Quantity = %v, want 10", pos.Quantity)
	}
	if !pos.Cost.Equal(BRL(100)) {
		t.Errorf("Cost = %v, want 100", pos.Cost)
	}
	if !pos.AveragePrice.Equal(BRL(10)) {
		t.Errorf("AveragePrice = %v, want 10", pos.AveragePrice)
	}
	if !pos.Deficit.IsZero() {
		t.Errorf("Deficit = %v, want 0", pos.Deficit)
	}
}

func TestPortfolio_BuyNeverTaxed(t *testing.T) {
	p := NewPortfolio(R0Rules(t))
	for _, b := range []Trade{buy(10, 100), buy(1000, 1000), buy(0, 5), buy(3.5, 0)} {
		tax, err := p.Apply(b)
		if err != nil {
			t.Fatalf("Apply(%v) error = %v", b, err)
		}
		if !tax.IsZero() {
			t.Errorf("Apply(%v) tax = %v, want 0", b, tax)
		}
	}
}

func TestPortfolio_WeightedAverage(t *testing.T) {
	tests := []struct {
		name   string
		trades []Trade
		want   Money
	}{
		{
			name:   "single buy",
			trades: []Trade{buy(10, 100)},
			want:   NO(10),
		},
		{
			name:   "two buys",
			trades: []Trade{buy(10, 10000), buy(25, 5000)},
			want:   NO(15),
		},
		{
			name:   "sell does not move the average",
			trades: []Trade{buy(10, 10000), buy(25, 5000), sell(15, 10000)},
			want:   NO(15),
		},
		{
			// (0 + 5*20) / (5 + 5) after the sell left a zero cost.
			name:   "buy after a sell uses the residual cost",
			trades: []Trade{buy(10, 10), sell(20, 5), buy(20, 5)},
			want:   NO(10),
		},
		{
			name:   "zero unit buy on an empty position",
			trades: []Trade{buy(10, 0)},
			want:   NO(0),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio(DefaultRules())
			for _, tr := range tc.trades {
				if _, err := p.Apply(tr); err != nil {
					t.Fatalf("Apply(%v) error = %v", tr, err)
				}
			}
			if got := p.Position().AveragePrice; !got.Equal(tc.want) {
				t.Errorf("AveragePrice = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPortfolio_SellInsufficientPosition(t *testing.T) {
	tests := []struct {
		name  string
		setup []Trade
		sell  Trade
	}{
		{name: "empty position", sell: sell(15, 20)},
		{name: "one unit too many", setup: []Trade{buy(10, 100)}, sell: sell(15, 101)},
		{name: "after a loss", setup: []Trade{buy(10, 100), sell(2, 50)}, sell: sell(15, 51)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio(DefaultRules())
			for _, tr := range tc.setup {
				if _, err := p.Apply(tr); err != nil {
					t.Fatalf("Apply(%v) error = %v", tr, err)
				}
			}
			before := p.Position()

			_, err := p.Apply(tc.sell)
			if !errors.Is(err, ErrInsufficientPosition) {
				t.Fatalf("Apply(%v) error = %v, want ErrInsufficientPosition", tc.sell, err)
			}

			after := p.Position()
			if !after.Quantity.Equal(before.Quantity) || !after.Cost.Equal(before.Cost) ||
				!after.AveragePrice.Equal(before.AveragePrice) || !after.Deficit.Equal(before.Deficit) {
				t.Errorf("position changed on a rejected sell: before %+v, after %+v", before, after)
			}
		})
	}
}

func TestPortfolio_SellWholePosition(t *testing.T) {
	p := NewPortfolio(DefaultRules())
	if _, err := p.Apply(buy(10, 100)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Apply(sell(10, 100)); err != nil {
		t.Fatalf("selling the whole position: %v", err)
	}
	if !p.Position().Quantity.IsZero() {
		t.Errorf("Quantity = %v, want 0", p.Position().Quantity)
	}
}

func TestPortfolio_CostReducedBySaleProceeds(t *testing.T) {
	p := NewPortfolio(DefaultRules())
	for _, tr := range []Trade{buy(10, 100), sell(20, 50)} {
		if _, err := p.Apply(tr); err != nil {
			t.Fatal(err)
		}
	}
	pos := p.Position()
	// 1000 bought, 50 sold at 20 = 1000 of proceeds.
	if !pos.Cost.IsZero() {
		t.Errorf("Cost = %v, want 0", pos.Cost)
	}
	if !pos.AveragePrice.Equal(NO(10)) {
		t.Errorf("AveragePrice = %v, want 10", pos.AveragePrice)
	}
	if !pos.Quantity.Equal(Q(50)) {
		t.Errorf("Quantity = %v, want 50", pos.Quantity)
	}
}

func TestPortfolio_Deficit(t *testing.T) {
	// Each step lists the trade, the tax it owes and the deficit after it.
	type step struct {
		trade   Trade
		tax     int64
		deficit float64
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "loss then fully absorbed gains then taxed gain",
			steps: []step{
				{buy(10, 10000), 0, 0},
				{sell(2, 5000), 0, 40000},
				{sell(20, 2000), 0, 20000},
				{sell(20, 2000), 0, 0},
				{sell(25, 1000), 3000, 0},
			},
		},
		{
			name: "gain larger than the deficit clears it",
			steps: []step{
				{buy(10, 10000), 0, 0},
				{sell(5, 5000), 0, 25000},
				{sell(20, 5000), 5000, 0},
			},
		},
		{
			name: "exempt sale still consumes the deficit",
			steps: []step{
				{buy(10, 10000), 0, 0},
				{sell(5, 1000), 0, 5000},
				{sell(20, 1000), 0, 0},
			},
		},
		{
			name: "break even sale",
			steps: []step{
				{buy(10, 100), 0, 0},
				{sell(5, 10), 0, 50},
				{sell(10, 10), 0, 50},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio(DefaultRules())
			for i, s := range tc.steps {
				tax, err := p.Apply(s.trade)
				if err != nil {
					t.Fatalf("step %d: Apply(%v) error = %v", i+1, s.trade, err)
				}
				if tax.Int() != s.tax {
					t.Errorf("step %d: tax = %v, want %d", i+1, tax.Int(), s.tax)
				}
				if d := p.Position().Deficit; !d.Equal(NO(s.deficit)) {
					t.Errorf("step %d: deficit = %v, want %v", i+1, d, s.deficit)
				}
			}
		})
	}
}

func TestPortfolio_DeficitNeverNegative(t *testing.T) {
	p := NewPortfolio(DefaultRules())
	trades := []Trade{
		buy(10, 10000), sell(30, 2000), sell(1, 1000), sell(50, 1000), buy(40, 3000),
		sell(5, 4000), sell(60, 1000), sell(60, 1000), buy(1, 10), sell(100, 1000),
	}
	for i, tr := range trades {
		if _, err := p.Apply(tr); err != nil {
			t.Fatalf("trade %d: Apply(%v) error = %v", i+1, tr, err)
		}
		if d := p.Position().Deficit; d.IsNegative() {
			t.Fatalf("trade %d: deficit = %v, must never be negative", i+1, d)
		}
	}
}

func TestPortfolio_Exemption(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		sell      Trade
		want      int64
	}{
		{name: "below threshold", threshold: 20000, sell: sell(15, 50), want: 0},
		{name: "exactly at threshold", threshold: 20000, sell: sell(20, 1000), want: 0},
		{name: "just above threshold", threshold: 20000, sell: sell(20.01, 1000), want: 2002},
		{name: "zero threshold taxes everything", threshold: 0, sell: sell(15, 50), want: 50},
		{name: "high threshold exempts a large gain", threshold: 1e9, sell: sell(20, 5000), want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules, err := NewRules(BRL(tc.threshold), R(0.2))
			if err != nil {
				t.Fatalf("NewRules() error = %v", err)
			}
			p := NewPortfolio(rules)
			if _, err := p.Apply(buy(10, 10000)); err != nil {
				t.Fatal(err)
			}
			tax, err := p.Apply(tc.sell)
			if err != nil {
				t.Fatalf("Apply(%v) error = %v", tc.sell, err)
			}
			if tax.Int() != tc.want {
				t.Errorf("tax = %d, want %d", tax.Int(), tc.want)
			}
		})
	}
}

func TestPortfolio_TaxIsTruncated(t *testing.T) {
	tests := []struct {
		name      string
		unitCost  float64
		wantExact Money
		want      int64
	}{
		{name: "integral", unitCost: 110, wantExact: NO(20), want: 20},
		{name: "fractional", unitCost: 110.9, wantExact: NO(20.18), want: 20},
		{name: "just under the next unit", unitCost: 114.95, wantExact: NO(20.99), want: 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio(R0Rules(t))
			if _, err := p.Apply(buy(10, 1)); err != nil {
				t.Fatal(err)
			}
			tax, err := p.Apply(sell(tc.unitCost, 1))
			if err != nil {
				t.Fatal(err)
			}
			if !tax.Amount().Equal(tc.wantExact) {
				t.Errorf("exact tax = %v, want %v", tax.Amount(), tc.wantExact)
			}
			if tax.Int() != tc.want {
				t.Errorf("tax = %d, want %d", tax.Int(), tc.want)
			}
		})
	}
}

// Reference cases of the calculator.
func TestReplay_Cases(t *testing.T) {
	tests := []struct {
		name   string
		trades []Trade
		want   []int64
	}{
		{
			name:   "case 1: small sales are exempt",
			trades: []Trade{buy(10, 100), sell(15, 50), sell(15, 50)},
			want:   []int64{0, 0, 0},
		},
		{
			name:   "case 2: gain then loss",
			trades: []Trade{buy(10, 10000), sell(20, 5000), sell(5, 5000)},
			want:   []int64{0, 10000, 0},
		},
		{
			name:   "case 3: loss then gain",
			trades: []Trade{buy(10, 10000), sell(5, 5000), sell(20, 5000)},
			want:   []int64{0, 0, 5000},
		},
		{
			name:   "case 4: sale at average price",
			trades: []Trade{buy(10, 10000), buy(25, 5000), sell(15, 10000)},
			want:   []int64{0, 0, 0},
		},
		{
			name:   "case 5: gain after a sale at average price",
			trades: []Trade{buy(10, 10000), buy(25, 5000), sell(15, 10000), sell(25, 5000)},
			want:   []int64{0, 0, 0, 10000},
		},
		{
			name:   "case 6: deficit absorption",
			trades: []Trade{buy(10, 10000), sell(2, 5000), sell(20, 2000), sell(20, 2000), sell(25, 1000)},
			want:   []int64{0, 0, 0, 0, 3000},
		},
		{
			name:   "empty batch",
			trades: nil,
			want:   []int64{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			taxes, err := Replay(DefaultRules(), tc.trades)
			if err != nil {
				t.Fatalf("Replay() error = %v", err)
			}
			if got := ints(taxes); !slices.Equal(got, tc.want) {
				t.Errorf("Replay() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReplay_FailsAsAWhole(t *testing.T) {
	trades := []Trade{buy(10, 10000), sell(20, 5000), sell(15, 6000), buy(10, 1)}
	taxes, err := Replay(DefaultRules(), trades)
	if taxes != nil {
		t.Errorf("Replay() = %v, want no taxes", ints(taxes))
	}
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Replay() error = %v, want ErrInvalidOperation", err)
	}
	if !errors.Is(err, ErrInsufficientPosition) {
		t.Errorf("Replay() error = %v, want ErrInsufficientPosition", err)
	}
}

func TestTrace(t *testing.T) {
	steps, err := Trace(DefaultRules(), []Trade{buy(10, 10000), sell(2, 5000), sell(25, 5000)})
	if err != nil {
		t.Fatalf("Trace() error = %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("len(Trace()) = %d, want 3", len(steps))
	}
	if d := steps[1].Position.Deficit; !d.Equal(NO(40000)) {
		t.Errorf("deficit after the loss = %v, want 40000", d)
	}
	// (25-10)*5000 = 75000 - 40000 = 35000 taxable.
	if got := steps[2].Tax.Int(); got != 7000 {
		t.Errorf("tax of the last sell = %d, want 7000", got)
	}
	if q := steps[2].Position.Quantity; !q.IsZero() {
		t.Errorf("final quantity = %v, want 0", q)
	}
	if total := TotalTax(steps, DefaultCurrency); !total.Equal(BRL(7000)) {
		t.Errorf("TotalTax() = %v, want 7000", total)
	}
}

// R0Rules returns rules with no exemption and a 20% rate.
func R0Rules(t *testing.T) Rules {
	t.Helper()
	rules, err := NewRules(BRL(0), R(0.2))
	if err != nil {
		t.Fatalf("NewRules() error = %v", err)
	}
	return rules
}

func TestTotalTax_SumsReportedTaxes(t *testing.T) {
	steps := []Step{
		{Tax: NewTax(NO(20.18))},
		{Tax: NewTax(NO(20.99))},
		{Tax: NewTax(NO(0))},
	}
	// each tax is reported truncated: 20 + 20, not 41.17.
	if total := TotalTax(steps, ""); !total.Equal(NO(40)) {
		t.Errorf("TotalTax() = %v, want 40", total)
	}
}

func TestPortfolio_CurrencyMismatch(t *testing.T) {
	p := NewPortfolio(DefaultRules())
	if _, err := p.Apply(buy(10, 100)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	before := p.Position()

	_, err := p.Apply(NewTrade(Buy, M(10, "USD"), Q(1)))
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("Apply(USD buy) error = %v, want ErrCurrencyMismatch", err)
	}
	if got := p.Position(); !got.Quantity.Equal(before.Quantity) || !got.Cost.Equal(before.Cost) {
		t.Errorf("position changed to %+v, want %+v", got, before)
	}

	if _, err := p.Apply(NewTrade(Sell, BRL(15), Q(10))); err != nil {
		t.Errorf("Apply(BRL sell) error = %v", err)
	}
}

func TestPortfolio_CurrencyFromFirstTrade(t *testing.T) {
	rules, err := NewRules(NO(20000), R(0.2))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPortfolio(rules)
	if _, err := p.Apply(NewTrade(Buy, M(10, "USD"), Q(100))); err != nil {
		t.Fatalf("Apply(USD buy) error = %v", err)
	}
	if _, err := p.Apply(NewTrade(Sell, M(10, "EUR"), Q(1))); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Apply(EUR sell) error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := p.Apply(sell(12, 50)); err != nil {
		t.Errorf("Apply(sell without currency) error = %v", err)
	}
}
