package engine

import "github.com/bench-prog/barsim/internal/domain"

// OutcomeKind classifies the result of evaluating one order against one
// bar. "Order stays pending" is an explicit outcome, not control flow.
type OutcomeKind string

const (
	OutcomeNoFill      OutcomeKind = "no_fill"
	OutcomePartialFill OutcomeKind = "partial_fill"
	OutcomeFullFill    OutcomeKind = "full_fill"
)

// MatchOutcome is the result of the per-order matching step.
type MatchOutcome struct {
	Kind  OutcomeKind
	Price float64
	Size  float64 // signed; |Size| <= |remaining|
}

var noFill = MatchOutcome{Kind: OutcomeNoFill}

// matchOrder evaluates a single pending order against a bar: determine
// the candidate price by order kind, apply slippage, then size the fill
// via the fill policy. State mutation happens in the caller.
func (b *Broker) matchOrder(o *domain.Order, bar domain.Bar) MatchOutcome {
	candidate, ok := b.candidatePrice(o, bar)
	if !ok {
		return noFill
	}

	price, ok := b.opts.Slippage.Apply(candidate, o.IsBuy(), bar)
	if !ok {
		return noFill
	}

	size := b.opts.Fill.SizeFor(o.Remaining(), bar)
	if size == 0 {
		return noFill
	}

	kind := OutcomeFullFill
	if size != o.Remaining() {
		kind = OutcomePartialFill
	}
	return MatchOutcome{Kind: kind, Price: price, Size: size}
}

// candidatePrice determines the theoretical execution price for the
// order against the bar, before slippage. ok is false when the bar does
// not reach the order's trigger or limit level.
func (b *Broker) candidatePrice(o *domain.Order, bar domain.Bar) (float64, bool) {
	switch o.Kind {
	case domain.OrderKindMarket:
		if b.opts.CheatOnClose {
			return bar.Close, true
		}
		return bar.Open, true

	case domain.OrderKindLimit:
		return limitPrice(o.IsBuy(), o.LimitPrice, bar.Open, bar)

	case domain.OrderKindStop:
		return stopPrice(o.IsBuy(), o.StopPrice, bar)

	case domain.OrderKindStopLimit:
		if !o.Triggered {
			trigger, ok := stopPrice(o.IsBuy(), o.StopPrice, bar)
			if !ok {
				return 0, false
			}
			o.Triggered = true
			// Evaluate the limit against the remainder of the same bar:
			// the trigger price stands in for the open.
			return limitPrice(o.IsBuy(), o.LimitPrice, trigger, bar)
		}
		return limitPrice(o.IsBuy(), o.LimitPrice, bar.Open, bar)

	case domain.OrderKindTrailingStop:
		b.trailStop(o, bar)
		return stopPrice(o.IsBuy(), o.StopPrice, bar)
	}
	return 0, false
}

// limitPrice evaluates a limit level against a bar. A bar opening beyond
// the limit fills at the more favorable open (or trigger) price.
func limitPrice(buy bool, limit, open float64, bar domain.Bar) (float64, bool) {
	if buy {
		if open <= limit {
			return open, true
		}
		if bar.Low <= limit {
			return limit, true
		}
		return 0, false
	}
	if open >= limit {
		return open, true
	}
	if bar.High >= limit {
		return limit, true
	}
	return 0, false
}

// stopPrice evaluates a stop level against a bar. A bar opening beyond
// the stop fills at the open (gap through the level).
func stopPrice(buy bool, stop float64, bar domain.Bar) (float64, bool) {
	if buy {
		if bar.Open >= stop {
			return bar.Open, true
		}
		if bar.High >= stop {
			return stop, true
		}
		return 0, false
	}
	if bar.Open <= stop {
		return bar.Open, true
	}
	if bar.Low <= stop {
		return stop, true
	}
	return 0, false
}

// trailStop ratchets a trailing stop's level from the previous bar's
// close: sell trails follow the market upward, buy trails downward, and
// the level never loosens. Ratcheting from the close of the completed
// bar keeps the stop from being raised and triggered by the same bar.
func (b *Broker) trailStop(o *domain.Order, bar domain.Bar) {
	ref, ok := b.lastClose[bar.Symbol]
	if !ok {
		return
	}
	distance := o.TrailAmount
	if o.TrailPercent > 0 {
		distance = ref * o.TrailPercent
	}

	if o.IsBuy() {
		if candidate := ref + distance; o.StopPrice == 0 || candidate < o.StopPrice {
			o.StopPrice = candidate
		}
		return
	}
	if candidate := ref - distance; o.StopPrice == 0 || candidate > o.StopPrice {
		o.StopPrice = candidate
	}
}

// ocoConflict implements the tie-break rule: when both a limit and a
// stop in the same OCO group could trigger inside the current bar's
// range, the configured side wins (stop first by default, the
// conservative choice). Returns true when this order should be skipped
// for the bar in favor of its sibling.
func (b *Broker) ocoConflict(o *domain.Order, bar domain.Bar) bool {
	if o.OCOGroup == 0 {
		return false
	}
	var mine, sibling domain.OrderKind
	switch o.Kind {
	case domain.OrderKindLimit:
		mine, sibling = domain.OrderKindLimit, domain.OrderKindStop
	case domain.OrderKindStop:
		mine, sibling = domain.OrderKindStop, domain.OrderKindLimit
	default:
		return false
	}

	loser := domain.OrderKindLimit
	if !b.opts.StopFirst {
		loser = domain.OrderKindStop
	}
	if mine != loser {
		return false
	}

	for _, other := range b.orders.ListGroup(o.OCOGroup) {
		if other.Ref == o.Ref || other.Kind != sibling || other.Status.IsTerminal() {
			continue
		}
		var ok bool
		if sibling == domain.OrderKindStop {
			_, ok = stopPrice(other.IsBuy(), other.StopPrice, bar)
		} else {
			_, ok = limitPrice(other.IsBuy(), other.LimitPrice, bar.Open, bar)
		}
		if ok {
			return true
		}
	}
	return false
}
