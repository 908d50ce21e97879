package service

import (
	"fmt"
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/bench-prog/barsim/internal/engine"
	"github.com/bench-prog/barsim/internal/store"
)

var symbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// ValidOrderStatuses lists all order status values accepted as filters.
var ValidOrderStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusCreated:   true,
	domain.OrderStatusSubmitted: true,
	domain.OrderStatusAccepted:  true,
	domain.OrderStatusPartial:   true,
	domain.OrderStatusCompleted: true,
	domain.OrderStatusCanceled:  true,
	domain.OrderStatusExpired:   true,
	domain.OrderStatusMargin:    true,
	domain.OrderStatusRejected:  true,
}

// Session is one independent simulation: a broker, its journal, and the
// websocket subscribers fed after each bar. The mutex serializes all
// access to the broker, which is itself single-threaded by design.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	broker  *engine.Broker
	journal *store.Journal
	subs    map[chan []engine.Notification]bool
}

// SessionService creates and owns simulation sessions.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates an empty SessionService.
func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
	}
}

// CostModelRequest is the per-symbol cost configuration supplied at
// session creation.
type CostModelRequest struct {
	Commission float64  `json:"commission"`
	Percentage bool     `json:"percentage"`
	Margin     *float64 `json:"margin"`
	Multiplier float64  `json:"multiplier"`
	Leverage   float64  `json:"leverage"`
}

// OptionsRequest configures the engine's matching behavior.
type OptionsRequest struct {
	StopFirst      *bool   `json:"stop_first"` // nil defaults to true
	CheatOnClose   bool    `json:"cheat_on_close"`
	SlippageKind   string  `json:"slippage_kind"` // "", none, fixed, percent
	SlippageAmount float64 `json:"slippage_amount"`
	SlippageClip   bool    `json:"slippage_clip"`
	FillKind       string  `json:"fill_kind"` // "", all, volume_fraction
	FillFraction   float64 `json:"fill_fraction"`
}

// CreateSessionRequest is the input for session creation.
type CreateSessionRequest struct {
	InitialCash float64
	Options     OptionsRequest
	CostModels  map[string]CostModelRequest
}

// CreateSession validates the configuration, builds the broker, and
// registers the session under a fresh id.
func (s *SessionService) CreateSession(req CreateSessionRequest) (*Session, error) {
	if req.InitialCash < 0 {
		return nil, &domain.ValidationError{Message: "initial_cash must be non-negative"}
	}

	opts, err := buildOptions(req.Options)
	if err != nil {
		return nil, err
	}

	broker := engine.NewBroker(req.InitialCash, opts)
	for symbol, cmReq := range req.CostModels {
		if !symbolRegex.MatchString(symbol) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid symbol %q: must match %s", symbol, symbolRegex)}
		}
		cm, err := buildCostModel(symbol, cmReq)
		if err != nil {
			return nil, err
		}
		if err := broker.SetCostModel(symbol, cm); err != nil {
			return nil, err
		}
	}

	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		broker:    broker,
		journal:   store.NewJournal(),
		subs:      make(map[chan []engine.Notification]bool),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// buildOptions translates the request into engine options, validating
// policy kinds and parameters.
func buildOptions(req OptionsRequest) (engine.Options, error) {
	opts := engine.DefaultOptions()
	if req.StopFirst != nil {
		opts.StopFirst = *req.StopFirst
	}
	opts.CheatOnClose = req.CheatOnClose

	switch req.SlippageKind {
	case "", string(engine.SlippageNone):
	case string(engine.SlippageFixed), string(engine.SlippagePercent):
		if req.SlippageAmount < 0 {
			return opts, &domain.ValidationError{Message: "slippage_amount must be non-negative"}
		}
		opts.Slippage = engine.SlippagePolicy{
			Kind:   engine.SlippageKind(req.SlippageKind),
			Amount: req.SlippageAmount,
			Clip:   req.SlippageClip,
		}
	default:
		return opts, &domain.ValidationError{Message: fmt.Sprintf("unknown slippage_kind %q", req.SlippageKind)}
	}

	switch req.FillKind {
	case "", string(engine.FillAll):
	case string(engine.FillVolumeFraction):
		if req.FillFraction <= 0 || req.FillFraction > 1 {
			return opts, &domain.ValidationError{Message: "fill_fraction must be in (0, 1]"}
		}
		opts.Fill = engine.FillPolicy{Kind: engine.FillVolumeFraction, Fraction: req.FillFraction}
	default:
		return opts, &domain.ValidationError{Message: fmt.Sprintf("unknown fill_kind %q", req.FillKind)}
	}

	return opts, nil
}

// buildCostModel validates a per-symbol cost configuration.
func buildCostModel(symbol string, req CostModelRequest) (domain.CostModel, error) {
	if req.Commission < 0 {
		return domain.CostModel{}, &domain.ValidationError{Message: fmt.Sprintf("%s: commission must be non-negative", symbol)}
	}
	if req.Margin != nil && *req.Margin <= 0 {
		return domain.CostModel{}, &domain.ValidationError{Message: fmt.Sprintf("%s: margin must be positive when set", symbol)}
	}
	if req.Multiplier < 0 {
		return domain.CostModel{}, &domain.ValidationError{Message: fmt.Sprintf("%s: multiplier must be non-negative", symbol)}
	}
	if req.Leverage < 0 {
		return domain.CostModel{}, &domain.ValidationError{Message: fmt.Sprintf("%s: leverage must be non-negative", symbol)}
	}
	return domain.CostModel{
		Commission: req.Commission,
		Percentage: req.Percentage,
		Margin:     req.Margin,
		Multiplier: req.Multiplier,
		Leverage:   req.Leverage,
	}.Normalize(), nil
}

// Get returns the session with the given id, or ErrSessionNotFound.
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// SubmitOrderRequest is the input for order submission.
type SubmitOrderRequest struct {
	Symbol       string
	Kind         string
	Size         float64
	LimitPrice   float64
	StopPrice    float64
	TrailAmount  float64
	TrailPercent float64
	Validity     string
	ValidUntil   *time.Time
	OCOGroup     int64
	ParentRef    int64

	// Bracket shorthand: when both are set, a take-profit limit and a
	// stop-loss stop are submitted as children of this order.
	TakeProfit float64
	StopLoss   float64
}

// SubmittedOrders groups the orders created by one submission: the main
// order plus any bracket children.
type SubmittedOrders struct {
	Order    *domain.Order
	Children []*domain.Order
}

// SubmitOrder validates the request shape and hands it to the engine.
// Semantic rejections (unknown symbol, missing prices, failed margin
// check) surface as terminal order statuses, not as errors.
func (s *SessionService) SubmitOrder(sessionID string, req SubmitOrderRequest) (*SubmittedOrders, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if req.Symbol != "" && !symbolRegex.MatchString(req.Symbol) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid symbol %q: must match %s", req.Symbol, symbolRegex)}
	}

	validity := domain.Validity{Kind: domain.ValidityGoodTillCancel}
	switch req.Validity {
	case "", string(domain.ValidityGoodTillCancel):
	case string(domain.ValidityDay):
		validity.Kind = domain.ValidityDay
	case string(domain.ValidityGoodTillDate):
		if req.ValidUntil == nil {
			return nil, &domain.ValidationError{Message: "valid_until is required for good_till_date validity"}
		}
		validity = domain.Validity{Kind: domain.ValidityGoodTillDate, Until: *req.ValidUntil}
	default:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown validity %q", req.Validity)}
	}

	bracket := req.TakeProfit != 0 || req.StopLoss != 0
	if bracket && (req.TakeProfit <= 0 || req.StopLoss <= 0) {
		return nil, &domain.ValidationError{Message: "bracket orders require both take_profit and stop_loss"}
	}
	if bracket && (req.OCOGroup != 0 || req.ParentRef != 0) {
		return nil, &domain.ValidationError{Message: "bracket shorthand cannot be combined with oco_group or parent_ref"}
	}

	submitReq := engine.SubmitRequest{
		Symbol:       req.Symbol,
		Kind:         domain.OrderKind(req.Kind),
		Size:         req.Size,
		LimitPrice:   req.LimitPrice,
		StopPrice:    req.StopPrice,
		TrailAmount:  req.TrailAmount,
		TrailPercent: req.TrailPercent,
		Validity:     validity,
		OCOGroup:     req.OCOGroup,
		ParentRef:    req.ParentRef,
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var result SubmittedOrders
	if bracket {
		parent, tp, sl := sess.broker.SubmitBracket(submitReq, req.TakeProfit, req.StopLoss)
		result.Order = parent
		if tp != nil {
			result.Children = append(result.Children, tp, sl)
		}
	} else {
		result.Order = sess.broker.Submit(submitReq)
	}

	_ = sess.journal.Append("order_submitted", time.Now(), result.Order)
	for _, child := range result.Children {
		_ = sess.journal.Append("order_submitted", time.Now(), child)
	}
	return &result, nil
}

// CancelOrder cancels an order in the session.
func (s *SessionService) CancelOrder(sessionID string, ref int64) (engine.CancelResult, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.broker.Cancel(ref), nil
}

// GetOrder returns one order by ref.
func (s *SessionService) GetOrder(sessionID string, ref int64) (*domain.Order, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.broker.Order(ref)
}

// ListOrders returns the session's orders in submission order,
// optionally filtered by status.
func (s *SessionService) ListOrders(sessionID string, status string) ([]*domain.Order, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var filter *domain.OrderStatus
	if status != "" {
		st := domain.OrderStatus(status)
		if !ValidOrderStatuses[st] {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown status %q", status)}
		}
		filter = &st
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.broker.Orders(filter), nil
}

// SessionState is a snapshot of a session's account.
type SessionState struct {
	ID        string
	CreatedAt time.Time
	Cash      float64
	Value     float64
	Positions []domain.Position
}

// State returns the session's cash, portfolio value at last closes, and
// open positions.
func (s *SessionService) State(sessionID string) (*SessionState, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionState{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		Cash:      sess.broker.Cash(),
		Value:     sess.broker.Value(nil),
		Positions: sess.broker.Positions(),
	}, nil
}

// Trades returns the session's closed round trips and open trades.
func (s *SessionService) Trades(sessionID string) (closed, open []*domain.Trade, err error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.broker.ClosedTrades(), sess.broker.OpenTrades(), nil
}

// WriteJournal writes the session's append-only order/trade history as
// newline-delimited JSON.
func (s *SessionService) WriteJournal(sessionID string, w io.Writer) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	_, err = sess.journal.WriteTo(w)
	return err
}
