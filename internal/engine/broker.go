package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/bench-prog/barsim/internal/store"
)

// Options configures a Broker's matching behavior. The policy sets are
// closed; the engine dispatches on policy kinds in single switches.
type Options struct {
	// StopFirst resolves the tie when both a limit and a stop level of
	// an OCO pair fall inside one bar's range: the stop wins, which
	// yields conservative backtests. Set false to prefer the limit.
	StopFirst bool
	// CheatOnClose fills market orders at the bar's close instead of
	// its open.
	CheatOnClose bool
	Slippage     SlippagePolicy
	Fill         FillPolicy
}

// DefaultOptions returns the conservative defaults: stop-first
// tie-break, no cheating, no slippage, full fills.
func DefaultOptions() Options {
	return Options{
		StopFirst: true,
		Slippage:  SlippagePolicy{Kind: SlippageNone},
		Fill:      FillPolicy{Kind: FillAll},
	}
}

// OrderEvent reports an order status transition. Every submitted order
// reaches a terminal state and every transition is reported exactly once.
type OrderEvent struct {
	Ref           int64              `json:"ref"`
	Status        domain.OrderStatus `json:"status"`
	ExecutedSize  float64            `json:"executed_size"`
	ExecutedPrice float64            `json:"executed_price"`
	Commission    float64            `json:"commission"`
	Reason        string             `json:"reason,omitempty"`
}

// TradeEvent reports a trade opening or closing.
type TradeEvent struct {
	TradeID  string             `json:"trade_id"`
	Status   domain.TradeStatus `json:"status"`
	GrossPnL float64            `json:"gross_pnl"`
	NetPnL   float64            `json:"net_pnl"`
}

// Notification is one element of the per-bar event stream. Exactly one
// of Order and Trade is set.
type Notification struct {
	Order *OrderEvent `json:"order,omitempty"`
	Trade *TradeEvent `json:"trade,omitempty"`
}

// CancelResult is the outcome of a cancel request.
type CancelResult string

const (
	CancelSuccess         CancelResult = "success"
	CancelNotFound        CancelResult = "not_found"
	CancelAlreadyTerminal CancelResult = "already_terminal"
)

// SubmitRequest carries the parameters of a new order.
type SubmitRequest struct {
	Symbol       string
	Kind         domain.OrderKind
	Size         float64 // signed: buy > 0, sell < 0
	LimitPrice   float64
	StopPrice    float64
	TrailAmount  float64
	TrailPercent float64
	Validity     domain.Validity
	OCOGroup     int64
	ParentRef    int64
}

// Broker is the matching engine: it owns all orders, positions, trades,
// available cash, and configuration, and is the sole mutator of that
// state. Processing is single-threaded and deterministic: one bar is
// processed to completion before the next is considered, and within a
// bar orders are matched in strict submission order. The Broker itself
// is not safe for concurrent use; callers serialize access.
type Broker struct {
	opts Options

	cash    float64
	started bool

	refCounter   int64
	seqCounter   int64
	groupCounter int64

	symbols *domain.SymbolRegistry
	costs   map[string]domain.CostModel

	orders *store.OrderStore
	trades *store.TradeStore
	queues *queueSet
	expiry *expiryIndex

	positions  map[string]*domain.Position
	openTrades map[string]*domain.Trade

	// pendingAccept holds submitted orders per symbol awaiting the
	// prospective margin check at the start of the next bar.
	pendingAccept map[string][]*domain.Order

	// marks is the last mark-to-market price per margined symbol.
	marks map[string]float64

	lastClose map[string]float64
	lastTS    map[string]time.Time

	notes []Notification
}

// NewBroker creates a Broker with the given starting cash. Invalid
// policy configurations fall back to the defaults.
func NewBroker(cash float64, opts Options) *Broker {
	if !opts.Slippage.Valid() {
		opts.Slippage = SlippagePolicy{Kind: SlippageNone}
	}
	if !opts.Fill.Valid() {
		opts.Fill = FillPolicy{Kind: FillAll}
	}
	return &Broker{
		opts:          opts,
		cash:          cash,
		symbols:       domain.NewSymbolRegistry(),
		costs:         make(map[string]domain.CostModel),
		orders:        store.NewOrderStore(),
		trades:        store.NewTradeStore(),
		queues:        newQueueSet(),
		expiry:        newExpiryIndex(),
		positions:     make(map[string]*domain.Position),
		openTrades:    make(map[string]*domain.Trade),
		pendingAccept: make(map[string][]*domain.Order),
		marks:         make(map[string]float64),
		lastClose:     make(map[string]float64),
		lastTS:        make(map[string]time.Time),
	}
}

// SetCostModel registers the commission and margin scheme for a symbol.
// Cost models are immutable once the first bar has been processed.
func (b *Broker) SetCostModel(symbol string, cm domain.CostModel) error {
	if b.started {
		return domain.ErrCostModelFrozen
	}
	b.costs[symbol] = cm.Normalize()
	b.symbols.Register(symbol)
	return nil
}

// costFor returns the symbol's cost model, or the neutral default
// (cash-settled, zero commission, multiplier 1).
func (b *Broker) costFor(symbol string) domain.CostModel {
	if cm, ok := b.costs[symbol]; ok {
		return cm
	}
	return domain.CostModel{}.Normalize()
}

// NextOCOGroup allocates a fresh one-cancels-other group id.
func (b *Broker) NextOCOGroup() int64 {
	b.groupCounter++
	return b.groupCounter
}

// Submit validates the request and creates the order. A valid order
// transitions created→submitted and is enqueued for the prospective
// check before the next matching pass; a malformed one lands in
// rejected. Both outcomes are reported through the notification stream,
// never as errors.
func (b *Broker) Submit(req SubmitRequest) *domain.Order {
	b.refCounter++
	o := &domain.Order{
		Ref:          b.refCounter,
		Symbol:       req.Symbol,
		Kind:         req.Kind,
		Size:         req.Size,
		LimitPrice:   req.LimitPrice,
		StopPrice:    req.StopPrice,
		TrailAmount:  req.TrailAmount,
		TrailPercent: req.TrailPercent,
		Validity:     req.Validity,
		OCOGroup:     req.OCOGroup,
		ParentRef:    req.ParentRef,
		Status:       domain.OrderStatusCreated,
		CreatedAt:    time.Now(),
	}
	if o.Validity.Kind == "" {
		o.Validity.Kind = domain.ValidityGoodTillCancel
	}
	b.orders.Create(o)

	if reason := b.validate(o); reason != "" {
		o.Reason = reason
		_ = o.Transition(domain.OrderStatusRejected, o.CreatedAt)
		b.notifyOrder(o)
		return o
	}

	_ = o.Transition(domain.OrderStatusSubmitted, o.CreatedAt)
	b.notifyOrder(o)

	// Bracket children stay dormant until the parent completes; they
	// are accepted at activation time, not here.
	if o.ParentRef != 0 {
		if parent, err := b.orders.Get(o.ParentRef); err == nil && parent.Status != domain.OrderStatusCompleted {
			return o
		}
	}
	b.pendingAccept[o.Symbol] = append(b.pendingAccept[o.Symbol], o)
	return o
}

// SubmitBracket submits an entry order plus take-profit and stop-loss
// children in one call. The children are sized to unwind the entry,
// linked to it as parent, and placed in a shared OCO group so that at
// most one of them completes.
func (b *Broker) SubmitBracket(entry SubmitRequest, takeProfit, stopLoss float64) (parent, tp, sl *domain.Order) {
	parent = b.Submit(entry)
	if parent.Status.IsTerminal() {
		return parent, nil, nil
	}

	group := b.NextOCOGroup()
	tp = b.Submit(SubmitRequest{
		Symbol:     entry.Symbol,
		Kind:       domain.OrderKindLimit,
		Size:       -entry.Size,
		LimitPrice: takeProfit,
		Validity:   entry.Validity,
		OCOGroup:   group,
		ParentRef:  parent.Ref,
	})
	sl = b.Submit(SubmitRequest{
		Symbol:    entry.Symbol,
		Kind:      domain.OrderKindStop,
		Size:      -entry.Size,
		StopPrice: stopLoss,
		Validity:  entry.Validity,
		OCOGroup:  group,
		ParentRef: parent.Ref,
	})
	return parent, tp, sl
}

// validate returns a rejection reason, or "" when the request is sound.
func (b *Broker) validate(o *domain.Order) string {
	if o.Symbol == "" || !b.symbols.Exists(o.Symbol) {
		return fmt.Sprintf("unknown symbol %q", o.Symbol)
	}
	if o.Size == 0 {
		return "size must be nonzero"
	}
	switch o.Kind {
	case domain.OrderKindMarket:
	case domain.OrderKindLimit:
		if o.LimitPrice <= 0 {
			return "limit order requires a positive limit price"
		}
	case domain.OrderKindStop:
		if o.StopPrice <= 0 {
			return "stop order requires a positive stop price"
		}
	case domain.OrderKindStopLimit:
		if o.StopPrice <= 0 || o.LimitPrice <= 0 {
			return "stop-limit order requires positive stop and limit prices"
		}
	case domain.OrderKindTrailingStop:
		if o.TrailAmount <= 0 && o.TrailPercent <= 0 {
			return "trailing stop requires a trail amount or percent"
		}
		if o.TrailAmount > 0 && o.TrailPercent > 0 {
			return "trail amount and percent are mutually exclusive"
		}
	default:
		return fmt.Sprintf("unknown order kind %q", o.Kind)
	}
	switch o.Validity.Kind {
	case domain.ValidityGoodTillCancel, domain.ValidityDay:
	case domain.ValidityGoodTillDate:
		if o.Validity.Until.IsZero() {
			return "good_till_date validity requires a deadline"
		}
	default:
		return fmt.Sprintf("unknown validity %q", o.Validity.Kind)
	}
	if o.ParentRef != 0 {
		parent, err := b.orders.Get(o.ParentRef)
		if err != nil {
			return fmt.Sprintf("parent order %d not found", o.ParentRef)
		}
		if parent.Symbol != o.Symbol {
			return "parent order is for a different symbol"
		}
		if parent.Status.IsTerminal() && parent.Status != domain.OrderStatusCompleted {
			return fmt.Sprintf("parent order %d is %s", o.ParentRef, parent.Status)
		}
	}
	return ""
}

// Cancel cancels a live order. Cancels are synchronous: they are
// applied immediately, before the next matching pass. The cancellation
// cascades to OCO siblings and to not-yet-active bracket children; it
// never touches the parent.
func (b *Broker) Cancel(ref int64) CancelResult {
	o, err := b.orders.Get(ref)
	if err != nil {
		return CancelNotFound
	}
	if o.Status.IsTerminal() {
		return CancelAlreadyTerminal
	}
	b.cancelOrder(o, time.Now(), true)
	return CancelSuccess
}

// cancelOrder transitions a live order to canceled, detaches it from
// the queues, and notifies. Dormant children are always canceled with
// it; cascadeGroup controls whether OCO siblings are canceled too.
func (b *Broker) cancelOrder(o *domain.Order, at time.Time, cascadeGroup bool) {
	if o.Status.IsTerminal() {
		return
	}
	b.detach(o)
	_ = o.Transition(domain.OrderStatusCanceled, at)
	b.notifyOrder(o)
	ordersTerminalTotal.WithLabelValues(string(domain.OrderStatusCanceled)).Inc()

	for _, child := range b.orders.ListChildren(o.Ref) {
		if child.Status == domain.OrderStatusSubmitted {
			b.cancelOrder(child, at, false)
		}
	}
	if cascadeGroup {
		b.cancelGroup(o.OCOGroup, o.Ref, at)
	}
}

// cancelGroup cancels every live member of an OCO group except the
// given ref.
func (b *Broker) cancelGroup(group, exceptRef int64, at time.Time) {
	for _, member := range b.orders.ListGroup(group) {
		if member.Ref == exceptRef || member.Status.IsTerminal() {
			continue
		}
		b.cancelOrder(member, at, false)
	}
}

// detach removes an order from the pending queue, the expiry index,
// and the acceptance queue.
func (b *Broker) detach(o *domain.Order) {
	b.queues.GetOrCreate(o.Symbol).Remove(o.Ref)
	b.expiry.Remove(o.Symbol, o.Ref)

	pending := b.pendingAccept[o.Symbol]
	for i, p := range pending {
		if p.Ref == o.Ref {
			b.pendingAccept[o.Symbol] = append(pending[:i], pending[i+1:]...)
			break
		}
	}
}

// ProcessBar runs one deterministic step for the bar's symbol: accept
// or margin-reject queued submissions, expire stale orders, match the
// pending queue in submission order, then mark open margined positions
// to the close. The only fatal conditions are a malformed bar and a
// timestamp that does not advance.
func (b *Broker) ProcessBar(bar domain.Bar) error {
	if err := bar.Validate(); err != nil {
		return err
	}
	if last, ok := b.lastTS[bar.Symbol]; ok && !bar.Timestamp.After(last) {
		return fmt.Errorf("%w: %s bar at %s does not advance past %s",
			domain.ErrStaleBar, bar.Symbol, bar.Timestamp.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	b.started = true
	b.symbols.Register(bar.Symbol)

	// 1. Acceptance: prospective check against the last known close,
	// or the bar's open when no close is known yet.
	refPrice := b.lastClose[bar.Symbol]
	if refPrice == 0 {
		refPrice = bar.Open
	}
	pending := b.pendingAccept[bar.Symbol]
	b.pendingAccept[bar.Symbol] = nil
	for _, o := range pending {
		if o.Status != domain.OrderStatusSubmitted {
			continue
		}
		b.acceptOrder(o, refPrice, bar.Timestamp)
	}

	// 2. Expiry, evaluated once per bar before matching.
	for _, o := range b.expiry.Due(bar.Symbol, bar.Timestamp) {
		if o.Status != domain.OrderStatusAccepted && o.Status != domain.OrderStatusPartial {
			continue
		}
		b.queues.GetOrCreate(o.Symbol).Remove(o.Ref)
		_ = o.Transition(domain.OrderStatusExpired, bar.Timestamp)
		b.notifyOrder(o)
		ordersTerminalTotal.WithLabelValues(string(domain.OrderStatusExpired)).Inc()
	}

	// 3. Matching pass over a snapshot, in submission order. Mutations
	// from one fill are visible to the next order in the same pass.
	queue := b.queues.GetOrCreate(bar.Symbol)
	for _, o := range queue.Snapshot() {
		if o.Status != domain.OrderStatusAccepted && o.Status != domain.OrderStatusPartial {
			queue.Remove(o.Ref)
			continue
		}
		if o.ParentRef != 0 {
			if parent, err := b.orders.Get(o.ParentRef); err == nil && parent.Status != domain.OrderStatusCompleted {
				continue
			}
		}
		if b.ocoConflict(o, bar) {
			continue
		}
		outcome := b.matchOrder(o, bar)
		if outcome.Kind == OutcomeNoFill {
			continue
		}
		b.execute(o, outcome, bar)
	}

	// 4. Mark-to-market at the close for margined positions.
	cm := b.costFor(bar.Symbol)
	if pos := b.positions[bar.Symbol]; cm.Margined() && pos != nil && pos.Size != 0 {
		b.cash += cm.CashAdjust(pos.Size, b.marks[bar.Symbol], bar.Close)
		b.marks[bar.Symbol] = bar.Close
	}

	if t := b.openTrades[bar.Symbol]; t != nil {
		t.BarsHeld++
	}

	b.lastClose[bar.Symbol] = bar.Close
	b.lastTS[bar.Symbol] = bar.Timestamp
	barsProcessedTotal.WithLabelValues(bar.Symbol).Inc()
	return nil
}

// acceptOrder runs the prospective cash/margin check and moves the
// order to accepted, or to margin when the simulated fill would drive
// cash negative. A margin rejection cancels OCO siblings and dormant
// children.
func (b *Broker) acceptOrder(o *domain.Order, refPrice float64, at time.Time) {
	if o.Kind == domain.OrderKindTrailingStop && o.StopPrice == 0 {
		b.seedTrailStop(o, refPrice)
	}
	if o.Validity.Kind == domain.ValidityDay && o.Validity.Until.IsZero() {
		o.Validity.Until = endOfDay(at)
	}

	if b.wouldBeCash(o, refPrice) < 0 {
		o.Reason = fmt.Sprintf("insufficient cash for %.4f @ %.4f", o.Size, refPrice)
		_ = o.Transition(domain.OrderStatusMargin, at)
		b.notifyOrder(o)
		ordersTerminalTotal.WithLabelValues(string(domain.OrderStatusMargin)).Inc()
		b.cancelGroup(o.OCOGroup, o.Ref, at)
		for _, child := range b.orders.ListChildren(o.Ref) {
			if child.Status == domain.OrderStatusSubmitted {
				b.cancelOrder(child, at, false)
			}
		}
		return
	}

	_ = o.Transition(domain.OrderStatusAccepted, at)
	b.notifyOrder(o)

	b.seqCounter++
	b.queues.GetOrCreate(o.Symbol).Insert(queueEntry{Seq: b.seqCounter, Ref: o.Ref, Order: o})
	b.expiry.Add(o)
}

// seedTrailStop sets a trailing stop's initial level from the reference
// price; afterwards the level only ratchets with favorable bars.
func (b *Broker) seedTrailStop(o *domain.Order, refPrice float64) {
	distance := o.TrailAmount
	if o.TrailPercent > 0 {
		distance = refPrice * o.TrailPercent
	}
	if o.IsBuy() {
		o.StopPrice = refPrice + distance
	} else {
		o.StopPrice = refPrice - distance
	}
}

// wouldBeCash simulates the cash balance after filling the order's
// remaining size immediately at the reference price.
func (b *Broker) wouldBeCash(o *domain.Order, refPrice float64) float64 {
	cm := b.costFor(o.Symbol)
	commission := cm.CommissionFor(o.Remaining(), refPrice)

	if cm.Margined() {
		var pos domain.Position
		if p := b.positions[o.Symbol]; p != nil {
			pos = *p
		}
		oldSize := pos.Size
		eff := pos.ApplyFill(o.Remaining(), refPrice)
		margin := *cm.Margin
		return b.cash +
			cm.CashAdjust(oldSize, b.marks[o.Symbol], refPrice) +
			math.Abs(eff.Closed)*margin -
			math.Abs(eff.Opened)*margin -
			commission
	}

	// Cash-settled: leverage scales the up-front notional.
	return b.cash - o.Remaining()*refPrice*cm.Multiplier/cm.Leverage - commission
}

// execute applies a nonzero fill: cash through the cost model, the
// position via weighted-average bookkeeping, the trade aggregate, and
// the order's status, emitting notifications for each transition.
func (b *Broker) execute(o *domain.Order, outcome MatchOutcome, bar domain.Bar) {
	cm := b.costFor(o.Symbol)
	commission := cm.CommissionFor(outcome.Size, outcome.Price)

	pos, ok := b.positions[o.Symbol]
	if !ok {
		pos = &domain.Position{Symbol: o.Symbol}
		b.positions[o.Symbol] = pos
	}
	oldSize := pos.Size

	// Margined instruments realize PnL through per-bar cash
	// adjustments; bring the open position to the fill price first.
	if cm.Margined() && oldSize != 0 {
		b.cash += cm.CashAdjust(oldSize, b.marks[o.Symbol], outcome.Price)
	}

	eff := pos.ApplyFill(outcome.Size, outcome.Price)

	if cm.Margined() {
		margin := *cm.Margin
		b.cash += math.Abs(eff.Closed) * margin
		b.cash -= math.Abs(eff.Opened) * margin
		b.cash -= commission
		if pos.Size != 0 {
			b.marks[o.Symbol] = outcome.Price
		} else {
			delete(b.marks, o.Symbol)
		}
	} else {
		b.cash -= outcome.Size*outcome.Price*cm.Multiplier + commission
	}

	b.updateTrades(o, eff, commission, cm, bar)

	o.RecordFill(outcome.Size, outcome.Price, commission)
	if o.Filled() {
		b.detach(o)
		_ = o.Transition(domain.OrderStatusCompleted, bar.Timestamp)
		b.notifyOrder(o)
		ordersTerminalTotal.WithLabelValues(string(domain.OrderStatusCompleted)).Inc()
		b.onCompleted(o, bar)
	} else {
		_ = o.Transition(domain.OrderStatusPartial, bar.Timestamp)
		b.notifyOrder(o)
	}
	fillsTotal.WithLabelValues(o.Symbol).Inc()
}

// updateTrades folds a fill's effect into the symbol's round-trip
// aggregation: reductions accrue realized PnL into the open trade and
// close it at flat; openings extend the trade or start a fresh one. A
// reversal does both, splitting the commission pro-rata between legs.
func (b *Broker) updateTrades(o *domain.Order, eff domain.FillEffect, commission float64, cm domain.CostModel, bar domain.Bar) {
	closeComm := commission
	openComm := commission
	if eff.Closed != 0 && eff.Opened != 0 {
		total := math.Abs(eff.Closed) + math.Abs(eff.Opened)
		closeComm = commission * math.Abs(eff.Closed) / total
		openComm = commission - closeComm
	}

	if eff.Closed != 0 {
		if t := b.openTrades[o.Symbol]; t != nil {
			t.RecordOrderRef(o.Ref)
			t.Shrink(eff.Closed, eff.RealizedPnL*cm.Multiplier)
			t.Charge(closeComm)
			if t.Size == 0 {
				t.Close(bar.Timestamp)
				b.trades.Append(t)
				delete(b.openTrades, o.Symbol)
				b.notifyTrade(t)
			}
		}
	}

	if eff.Opened != 0 {
		t := b.openTrades[o.Symbol]
		fresh := t == nil
		if fresh {
			t = &domain.Trade{
				TradeID:  uuid.New().String(),
				Symbol:   o.Symbol,
				Status:   domain.TradeStatusOpen,
				OpenedAt: bar.Timestamp,
			}
			b.openTrades[o.Symbol] = t
		}
		t.RecordOrderRef(o.Ref)
		t.Grow(eff.Opened, b.positions[o.Symbol].Price)
		t.Charge(openComm)
		if fresh {
			b.notifyTrade(t)
		}
	}
}

// onCompleted handles group semantics after a fill completes an order:
// OCO siblings are canceled, bracket children are activated (eligible
// for matching from the next bar), and a completed bracket child takes
// its sibling down via their shared group.
func (b *Broker) onCompleted(o *domain.Order, bar domain.Bar) {
	b.cancelGroup(o.OCOGroup, o.Ref, bar.Timestamp)

	for _, child := range b.orders.ListChildren(o.Ref) {
		if child.Status != domain.OrderStatusSubmitted {
			continue
		}
		b.acceptOrder(child, o.ExecutedPrice, bar.Timestamp)
	}
}

// Cash returns the available cash balance.
func (b *Broker) Cash() float64 {
	return b.cash
}

// Value returns cash plus the value of open positions at the given mark
// prices. Symbols missing from marks fall back to their last close.
// Margined positions contribute posted margin plus unrealized PnL
// relative to the last mark.
func (b *Broker) Value(marks map[string]float64) float64 {
	total := b.cash
	for symbol, pos := range b.positions {
		if pos.Size == 0 {
			continue
		}
		mark, ok := marks[symbol]
		if !ok {
			mark = b.lastClose[symbol]
		}
		cm := b.costFor(symbol)
		if cm.Margined() {
			margin := *cm.Margin
			total += math.Abs(pos.Size)*margin + cm.CashAdjust(pos.Size, b.marks[symbol], mark)
		} else {
			total += pos.Size * mark * cm.Multiplier
		}
	}
	return total
}

// Position returns a copy of the symbol's position, zero-valued when
// flat or never traded.
func (b *Broker) Position(symbol string) domain.Position {
	if pos, ok := b.positions[symbol]; ok {
		return *pos
	}
	return domain.Position{Symbol: symbol}
}

// Positions returns copies of all non-flat positions, sorted by symbol.
func (b *Broker) Positions() []domain.Position {
	out := make([]domain.Position, 0, len(b.positions))
	for _, pos := range b.positions {
		if pos.Size != 0 {
			out = append(out, *pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// OpenTrades returns the currently open trades, sorted by symbol.
func (b *Broker) OpenTrades() []*domain.Trade {
	out := make([]*domain.Trade, 0, len(b.openTrades))
	for _, t := range b.openTrades {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Order returns the order with the given ref.
func (b *Broker) Order(ref int64) (*domain.Order, error) {
	return b.orders.Get(ref)
}

// Orders returns all orders in submission order, optionally filtered by
// status.
func (b *Broker) Orders(status *domain.OrderStatus) []*domain.Order {
	return b.orders.List(status)
}

// ClosedTrades returns the archived round trips in chronological order.
func (b *Broker) ClosedTrades() []*domain.Trade {
	return b.trades.List()
}

// OpenTrade returns the symbol's open trade, or nil.
func (b *Broker) OpenTrade(symbol string) *domain.Trade {
	return b.openTrades[symbol]
}

// Notifications drains and returns the queued event stream in emission
// order.
func (b *Broker) Notifications() []Notification {
	notes := b.notes
	b.notes = nil
	return notes
}

func (b *Broker) notifyOrder(o *domain.Order) {
	b.notes = append(b.notes, Notification{Order: &OrderEvent{
		Ref:           o.Ref,
		Status:        o.Status,
		ExecutedSize:  o.ExecutedSize,
		ExecutedPrice: o.ExecutedPrice,
		Commission:    o.Commission,
		Reason:        o.Reason,
	}})
}

func (b *Broker) notifyTrade(t *domain.Trade) {
	b.notes = append(b.notes, Notification{Trade: &TradeEvent{
		TradeID:  t.TradeID,
		Status:   t.Status,
		GrossPnL: t.GrossPnL,
		NetPnL:   t.NetPnL,
	}})
}
