package engine

import (
	"math"

	"github.com/bench-prog/barsim/internal/domain"
)

// FillKind selects how much of an order's remaining size executes once
// a price has been determined.
type FillKind string

const (
	// FillAll executes the entire remaining size in one fill.
	FillAll FillKind = "all"
	// FillVolumeFraction caps each fill at a fraction of the bar's
	// volume, leaving the remainder pending as a partial.
	FillVolumeFraction FillKind = "volume_fraction"
)

// FillPolicy determines the signed size executed against a bar. The
// volume fraction is configuration, not a baked-in constant.
type FillPolicy struct {
	Kind     FillKind
	Fraction float64 // in (0, 1] for volume_fraction
}

// Valid reports whether the policy is well-formed.
func (p FillPolicy) Valid() bool {
	switch p.Kind {
	case FillAll:
		return true
	case FillVolumeFraction:
		return p.Fraction > 0 && p.Fraction <= 1
	}
	return false
}

// SizeFor returns the signed size to execute for an order with the
// given signed remaining size. A zero return means no fill this bar.
func (p FillPolicy) SizeFor(remaining float64, bar domain.Bar) float64 {
	if p.Kind != FillVolumeFraction {
		return remaining
	}
	most := p.Fraction * bar.Volume
	if most <= 0 {
		return 0
	}
	if math.Abs(remaining) <= most {
		return remaining
	}
	if remaining > 0 {
		return most
	}
	return -most
}
