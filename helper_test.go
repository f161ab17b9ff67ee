package capgains

// BRL is a helper for test to create money from const in the default currency.
func BRL(v float64) Money { return M(v, DefaultCurrency) }

// NO is a helper for test to create money from const with no currency set.
func NO(v float64) Money { return M(v, "") }

// buy and sell are short hands for trade lists.
func buy(unitCost, quantity float64) Trade  { return NewBuy(unitCost, quantity) }
func sell(unitCost, quantity float64) Trade { return NewSell(unitCost, quantity) }

// ints returns the truncated taxes.
func ints(taxes []Tax) []int64 {
	out := make([]int64, len(taxes))
	for i, t := range taxes {
		out[i] = t.Int()
	}
	return out
}
