package domain

import (
	"math"
	"time"
)

// TradeStatus is the lifecycle state of a round trip.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Trade aggregates one open→flat round trip for a symbol. At most one
// open trade exists per symbol at any time; it closes exactly when the
// position returns to zero.
type Trade struct {
	TradeID    string
	Symbol     string
	Status     TradeStatus
	OpenedAt   time.Time
	ClosedAt   *time.Time
	Size       float64 // current signed size
	MaxSize    float64 // peak absolute size over the trade's lifetime
	EntryPrice float64 // weighted-average entry of the open leg
	GrossPnL   float64 // cumulative realized, price-only × multiplier
	NetPnL     float64 // gross minus commissions
	BarsHeld   int
	OrderRefs  []int64
}

// RecordOrderRef appends an order ref once.
func (t *Trade) RecordOrderRef(ref int64) {
	for _, r := range t.OrderRefs {
		if r == ref {
			return
		}
	}
	t.OrderRefs = append(t.OrderRefs, ref)
}

// Grow extends the trade by a signed opened portion and tracks the
// peak size.
func (t *Trade) Grow(opened, avgPrice float64) {
	t.Size += opened
	t.EntryPrice = avgPrice
	if abs := math.Abs(t.Size); abs > t.MaxSize {
		t.MaxSize = abs
	}
}

// Shrink reduces the trade by a signed closed portion and accumulates
// realized PnL (already scaled by the contract multiplier).
func (t *Trade) Shrink(closed, grossPnL float64) {
	t.Size += closed
	if math.Abs(t.Size) <= sizeEps {
		t.Size = 0
	}
	t.GrossPnL += grossPnL
	t.NetPnL += grossPnL
}

// Charge subtracts a commission from the trade's net PnL.
func (t *Trade) Charge(commission float64) {
	t.NetPnL -= commission
}

// Close marks the trade closed at the given time.
func (t *Trade) Close(at time.Time) {
	t.Status = TradeStatusClosed
	ts := at
	t.ClosedAt = &ts
}
