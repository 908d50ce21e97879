package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/bench-prog/barsim/internal/service"
)

// SessionHandler handles HTTP requests for session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// createSessionRequest is the JSON request body for POST /sessions.
type createSessionRequest struct {
	InitialCash float64                             `json:"initial_cash"`
	Options     service.OptionsRequest              `json:"options"`
	CostModels  map[string]service.CostModelRequest `json:"cost_models"`
}

// sessionResponse is the JSON response for session state.
type sessionResponse struct {
	SessionID string             `json:"session_id"`
	CreatedAt string             `json:"created_at"`
	Cash      float64            `json:"cash"`
	Value     float64            `json:"value"`
	Positions []positionResponse `json:"positions"`
}

type positionResponse struct {
	Symbol string  `json:"symbol"`
	Size   float64 `json:"size"`
	Price  float64 `json:"avg_price"`
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := h.sessions.CreateSession(service.CreateSessionRequest{
		InitialCash: req.InitialCash,
		Options:     req.Options,
		CostModels:  req.CostModels,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	state, err := h.sessions.State(sess.ID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildSessionResponse(state))
}

// Get handles GET /sessions/{session_id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.State(chi.URLParam(r, "session_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildSessionResponse(state))
}

func buildSessionResponse(state *service.SessionState) sessionResponse {
	positions := make([]positionResponse, 0, len(state.Positions))
	for _, p := range state.Positions {
		positions = append(positions, positionResponse{Symbol: p.Symbol, Size: p.Size, Price: p.Price})
	}
	return sessionResponse{
		SessionID: state.ID,
		CreatedAt: state.CreatedAt.UTC().Format(timeFormat),
		Cash:      state.Cash,
		Value:     state.Value,
		Positions: positions,
	}
}

// tradeResponse is the JSON shape of one round trip.
type tradeResponse struct {
	TradeID    string  `json:"trade_id"`
	Symbol     string  `json:"symbol"`
	Status     string  `json:"status"`
	OpenedAt   string  `json:"opened_at"`
	ClosedAt   *string `json:"closed_at"`
	Size       float64 `json:"size"`
	MaxSize    float64 `json:"max_size"`
	EntryPrice float64 `json:"entry_price"`
	GrossPnL   float64 `json:"gross_pnl"`
	NetPnL     float64 `json:"net_pnl"`
	BarsHeld   int     `json:"bars_held"`
	OrderRefs  []int64 `json:"order_refs"`
}

// ListTrades handles GET /sessions/{session_id}/trades.
func (h *SessionHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	closed, open, err := h.sessions.Trades(chi.URLParam(r, "session_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := struct {
		Open   []tradeResponse `json:"open"`
		Closed []tradeResponse `json:"closed"`
	}{
		Open:   make([]tradeResponse, 0, len(open)),
		Closed: make([]tradeResponse, 0, len(closed)),
	}
	for _, t := range open {
		out.Open = append(out.Open, buildTradeResponse(t))
	}
	for _, t := range closed {
		out.Closed = append(out.Closed, buildTradeResponse(t))
	}
	WriteJSON(w, http.StatusOK, out)
}

func buildTradeResponse(t *domain.Trade) tradeResponse {
	resp := tradeResponse{
		TradeID:    t.TradeID,
		Symbol:     t.Symbol,
		Status:     string(t.Status),
		OpenedAt:   t.OpenedAt.UTC().Format(timeFormat),
		Size:       t.Size,
		MaxSize:    t.MaxSize,
		EntryPrice: t.EntryPrice,
		GrossPnL:   t.GrossPnL,
		NetPnL:     t.NetPnL,
		BarsHeld:   t.BarsHeld,
		OrderRefs:  t.OrderRefs,
	}
	if t.ClosedAt != nil {
		closedAt := t.ClosedAt.UTC().Format(timeFormat)
		resp.ClosedAt = &closedAt
	}
	return resp
}

// Journal handles GET /sessions/{session_id}/journal, streaming the
// append-only history as newline-delimited JSON.
func (h *SessionHandler) Journal(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if _, err := h.sessions.Get(sessionID); err != nil {
		mapDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	_ = h.sessions.WriteJournal(sessionID, w)
}
