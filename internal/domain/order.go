package domain

import (
	"math"
	"time"
)

// OrderKind identifies the execution rule used to match an order
// against a bar.
type OrderKind string

const (
	OrderKindMarket       OrderKind = "market"
	OrderKindLimit        OrderKind = "limit"
	OrderKindStop         OrderKind = "stop"
	OrderKindStopLimit    OrderKind = "stop_limit"
	OrderKindTrailingStop OrderKind = "trailing_stop"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusMargin    OrderStatus = "margin"
	OrderStatusRejected  OrderStatus = "rejected"
)

// validTransitions defines the allowed forward edges of the order state
// machine. Terminal states have no outgoing edges.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:   {OrderStatusSubmitted, OrderStatusRejected},
	OrderStatusSubmitted: {OrderStatusAccepted, OrderStatusMargin, OrderStatusRejected, OrderStatusCanceled},
	OrderStatusAccepted:  {OrderStatusPartial, OrderStatusCompleted, OrderStatusCanceled, OrderStatusExpired},
	OrderStatusPartial:   {OrderStatusPartial, OrderStatusCompleted, OrderStatusCanceled, OrderStatusExpired},
}

// CanTransition reports whether the state machine permits moving from
// one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCanceled, OrderStatusExpired, OrderStatusMargin, OrderStatusRejected:
		return true
	}
	return false
}

// ValidityKind selects how long an order remains eligible for matching.
type ValidityKind string

const (
	ValidityGoodTillCancel ValidityKind = "good_till_cancel"
	ValidityDay            ValidityKind = "day"
	ValidityGoodTillDate   ValidityKind = "good_till_date"
)

// Validity describes an order's lifetime. Until is required for
// good_till_date and is computed by the engine for day orders once the
// order is accepted against a bar.
type Validity struct {
	Kind  ValidityKind
	Until time.Time
}

// sizeEps absorbs float64 accumulation error when deciding whether an
// order's remaining size has reached zero.
const sizeEps = 1e-9

// Order is a single execution request. Orders are created by the
// consumer and mutated exclusively by the engine.
type Order struct {
	Ref    int64
	Symbol string
	Kind   OrderKind

	// Size is signed: buy > 0, sell < 0. |ExecutedSize| never exceeds |Size|.
	Size float64

	LimitPrice   float64
	StopPrice    float64
	TrailAmount  float64
	TrailPercent float64

	Validity Validity
	Status   OrderStatus

	// ParentRef links a bracket child to its entry order; 0 means no parent.
	ParentRef int64
	// OCOGroup links mutually exclusive orders; 0 means none.
	OCOGroup int64

	// Triggered is set once a stop or stop-limit level has been crossed.
	Triggered bool

	ExecutedSize  float64 // signed, same sign as Size
	ExecutedPrice float64 // volume-weighted over fills
	Commission    float64 // accumulated over fills

	Reason string // populated for rejected and margin orders

	CreatedAt  time.Time
	AcceptedAt *time.Time
	TerminalAt *time.Time
}

// Remaining returns the signed unexecuted size.
func (o *Order) Remaining() float64 {
	return o.Size - o.ExecutedSize
}

// IsBuy reports whether the order increases exposure in the positive
// direction.
func (o *Order) IsBuy() bool {
	return o.Size > 0
}

// Filled reports whether the remaining size is zero within tolerance.
func (o *Order) Filled() bool {
	return math.Abs(o.Remaining()) <= sizeEps
}

// RecordFill folds a fill into the order's executed size, weighted
// execution price, and accumulated commission. The engine is the only
// caller.
func (o *Order) RecordFill(size, price, commission float64) {
	prev := math.Abs(o.ExecutedSize)
	add := math.Abs(size)
	if prev+add > 0 {
		o.ExecutedPrice = (prev*o.ExecutedPrice + add*price) / (prev + add)
	}
	o.ExecutedSize += size
	o.Commission += commission
}

// Transition advances the order's status, enforcing the state machine.
// Returns ErrInvalidTransition when the edge is not allowed.
func (o *Order) Transition(to OrderStatus, at time.Time) error {
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}
	o.Status = to
	if to == OrderStatusAccepted {
		t := at
		o.AcceptedAt = &t
	}
	if to.IsTerminal() {
		t := at
		o.TerminalAt = &t
	}
	return nil
}
