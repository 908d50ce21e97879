package engine

import (
	"sort"
	"time"

	"github.com/bench-prog/barsim/internal/domain"
)

// expiryIndex tracks live orders with a validity deadline, per symbol,
// sorted by deadline ascending. Expiry is evaluated deterministically
// against bar timestamps, never wall-clock timers: once per bar, before
// matching, every order whose deadline has passed transitions to
// expired.
type expiryIndex struct {
	bySymbol map[string][]*domain.Order
}

// newExpiryIndex creates an empty expiryIndex.
func newExpiryIndex() *expiryIndex {
	return &expiryIndex{
		bySymbol: make(map[string][]*domain.Order),
	}
}

// Add inserts an order into its symbol's sorted slice, maintaining
// deadline ASC order. Orders without a deadline are ignored.
func (e *expiryIndex) Add(o *domain.Order) {
	if o.Validity.Until.IsZero() {
		return
	}
	orders := e.bySymbol[o.Symbol]

	until := o.Validity.Until
	// Binary search for the insertion point.
	idx := sort.Search(len(orders), func(i int) bool {
		return orders[i].Validity.Until.After(until)
	})
	orders = append(orders, nil)
	copy(orders[idx+1:], orders[idx:])
	orders[idx] = o
	e.bySymbol[o.Symbol] = orders
}

// Remove deletes an order from its symbol's slice by ref.
func (e *expiryIndex) Remove(symbol string, ref int64) {
	orders := e.bySymbol[symbol]
	for i, o := range orders {
		if o.Ref == ref {
			e.bySymbol[symbol] = append(orders[:i], orders[i+1:]...)
			return
		}
	}
}

// Due pops and returns the orders for the symbol whose deadline is at
// or before now, in deadline order.
func (e *expiryIndex) Due(symbol string, now time.Time) []*domain.Order {
	orders := e.bySymbol[symbol]

	cutoff := 0
	for cutoff < len(orders) {
		if orders[cutoff].Validity.Until.After(now) {
			break
		}
		cutoff++
	}
	if cutoff == 0 {
		return nil
	}
	due := orders[:cutoff:cutoff]
	e.bySymbol[symbol] = orders[cutoff:]
	return due
}

// endOfDay returns the first instant of the UTC day after ts. Day
// orders expire when a bar at or past this boundary arrives.
func endOfDay(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
