package capgains

import (
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
)

// Default tax rules.
const (
	DefaultCurrency           = "BRL"
	DefaultExemptionThreshold = 20000
	DefaultTaxRate            = 0.2
)

// Rules is the read-only tax configuration of a Portfolio.
type Rules struct {
	// ExemptionThreshold is the sale proceeds at or below which a sell owes
	// no tax, whatever its gain.
	ExemptionThreshold Money
	// TaxRate is the flat fraction of the taxable gain owed.
	TaxRate Rate
}

// DefaultRules returns a 20% tax rate with sales up to 20000 exempt.
func DefaultRules() Rules {
	return Rules{
		ExemptionThreshold: M(DefaultExemptionThreshold, DefaultCurrency),
		TaxRate:            R(DefaultTaxRate),
	}
}

// NewRules creates validated Rules.
func NewRules(threshold Money, rate Rate) (Rules, error) {
	r := Rules{ExemptionThreshold: threshold, TaxRate: rate}
	return r, r.Validate()
}

// Currency returns the currency amounts are reported in.
func (r Rules) Currency() string { return r.ExemptionThreshold.Currency() }

// Validate checks the threshold is not negative, the rate is within [0, 1]
// and the currency, if any, is known.
func (r Rules) Validate() error {
	var errs []error
	if r.ExemptionThreshold.IsNegative() {
		errs = append(errs, fmt.Errorf("exemption threshold must not be negative, got %s", r.ExemptionThreshold))
	}
	if r.TaxRate.IsNegative() || r.TaxRate.exceedsOne() {
		errs = append(errs, fmt.Errorf("tax rate must be between 0 and 1, got %s", r.TaxRate.Fraction()))
	}
	if c := r.Currency(); c != "" && money.GetCurrency(c) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", c))
	}
	return errors.Join(errs...)
}

// exempt tells whether a sale of notional proceeds owes no tax.
func (r Rules) exempt(notional Money) bool {
	return notional.LessThanOrEqual(r.ExemptionThreshold)
}

// tax returns the tax owed on a taxable gain realized by a sale of notional.
func (r Rules) tax(notional, taxable Money) Money {
	if r.exempt(notional) {
		return M(0, r.Currency())
	}
	return taxable.Scale(r.TaxRate)
}
