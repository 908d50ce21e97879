package engine

import "github.com/bench-prog/barsim/internal/domain"

// SlippageKind selects how a theoretical fill price is adjusted to model
// market impact. The set is closed: the engine dispatches on the kind in
// a single switch so behavior stays exhaustively testable.
type SlippageKind string

const (
	SlippageNone    SlippageKind = "none"
	SlippageFixed   SlippageKind = "fixed"
	SlippagePercent SlippageKind = "percent"
)

// SlippagePolicy adjusts a candidate fill price against the order's
// direction: buys slip upward, sells downward. When Clip is set, an
// adjusted price outside the bar's range is clamped to [low, high];
// otherwise the fill is abandoned for this bar and the order stays
// pending.
type SlippagePolicy struct {
	Kind   SlippageKind
	Amount float64 // absolute offset for fixed, fraction for percent
	Clip   bool
}

// Valid reports whether the policy is well-formed.
func (p SlippagePolicy) Valid() bool {
	switch p.Kind {
	case SlippageNone:
		return true
	case SlippageFixed, SlippagePercent:
		return p.Amount >= 0
	}
	return false
}

// Apply returns the adjusted execution price and whether a fill can
// proceed at that price within the bar.
func (p SlippagePolicy) Apply(price float64, buy bool, bar domain.Bar) (float64, bool) {
	adjusted := price
	switch p.Kind {
	case SlippageNone:
		return price, true
	case SlippageFixed:
		if buy {
			adjusted = price + p.Amount
		} else {
			adjusted = price - p.Amount
		}
	case SlippagePercent:
		if buy {
			adjusted = price * (1 + p.Amount)
		} else {
			adjusted = price * (1 - p.Amount)
		}
	}

	if adjusted >= bar.Low && adjusted <= bar.High {
		return adjusted, true
	}
	if !p.Clip {
		return 0, false
	}
	if adjusted > bar.High {
		return bar.High, true
	}
	return bar.Low, true
}
