package domain

import "math"

// CostModel holds the per-symbol commission and margin scheme. It is
// configured once before a run and treated as immutable afterwards.
//
// A nil Margin means the instrument is cash-settled (stock-like): a fill
// moves the full notional through cash. A non-nil Margin means a fixed
// margin per contract is posted instead, and open positions are
// mark-to-market cash-adjusted once per bar.
type CostModel struct {
	Commission float64  // rate when Percentage, otherwise fee per contract
	Percentage bool
	Margin     *float64 // nil ⇒ cash-settled
	Multiplier float64
	Leverage   float64
}

// Normalize fills in the neutral defaults for zero-valued fields.
func (c CostModel) Normalize() CostModel {
	if c.Multiplier == 0 {
		c.Multiplier = 1
	}
	if c.Leverage == 0 {
		c.Leverage = 1
	}
	return c
}

// Margined reports whether the instrument posts fixed margin per
// contract instead of full notional.
func (c CostModel) Margined() bool {
	return c.Margin != nil
}

// CommissionFor computes the commission charged for a fill of the given
// signed size at the given price.
func (c CostModel) CommissionFor(size, price float64) float64 {
	if c.Percentage {
		return c.Commission * math.Abs(size) * price * c.Multiplier
	}
	return c.Commission * math.Abs(size)
}

// MarginRequirement is the collateral needed to hold |size| at the given
// price: full notional for cash-settled instruments, fixed margin per
// contract otherwise.
func (c CostModel) MarginRequirement(size, price float64) float64 {
	if c.Margined() {
		return math.Abs(size) * *c.Margin
	}
	return math.Abs(size) * price * c.Multiplier
}

// ProspectiveRequirement is the cash needed to accept an order of the
// given signed size at the given price. Leverage scales down the
// cash-settled notional; margined instruments post the fixed margin.
func (c CostModel) ProspectiveRequirement(size, price float64) float64 {
	if c.Margined() {
		return math.Abs(size) * *c.Margin
	}
	return math.Abs(size) * price * c.Multiplier / c.Leverage
}

// CashAdjust returns the per-bar mark-to-market cash movement for an
// open position of the given signed size between two mark prices. It is
// zero for cash-settled instruments.
func (c CostModel) CashAdjust(size, prevMark, newMark float64) float64 {
	if !c.Margined() || size == 0 {
		return 0
	}
	return size * c.Multiplier * (newMark - prevMark)
}
