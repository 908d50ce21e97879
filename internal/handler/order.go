package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/bench-prog/barsim/internal/engine"
	"github.com/bench-prog/barsim/internal/service"
)

// timeFormat is the wire format for all timestamps.
const timeFormat = time.RFC3339

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	sessions *service.SessionService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(sessions *service.SessionService) *OrderHandler {
	return &OrderHandler{sessions: sessions}
}

// submitOrderRequest is the JSON request body for POST /sessions/{session_id}/orders.
type submitOrderRequest struct {
	Symbol       string  `json:"symbol"`
	Kind         string  `json:"kind"`
	Size         float64 `json:"size"`
	LimitPrice   float64 `json:"limit_price"`
	StopPrice    float64 `json:"stop_price"`
	TrailAmount  float64 `json:"trail_amount"`
	TrailPercent float64 `json:"trail_percent"`
	Validity     string  `json:"validity"`
	ValidUntil   *string `json:"valid_until"`
	OCOGroup     int64   `json:"oco_group"`
	ParentRef    int64   `json:"parent_ref"`
	TakeProfit   float64 `json:"take_profit"`
	StopLoss     float64 `json:"stop_loss"`
}

// orderResponse is the JSON shape of one order. Nullable fields use
// pointers.
type orderResponse struct {
	Ref           int64   `json:"ref"`
	Symbol        string  `json:"symbol"`
	Kind          string  `json:"kind"`
	Size          float64 `json:"size"`
	LimitPrice    float64 `json:"limit_price,omitempty"`
	StopPrice     float64 `json:"stop_price,omitempty"`
	TrailAmount   float64 `json:"trail_amount,omitempty"`
	TrailPercent  float64 `json:"trail_percent,omitempty"`
	Validity      string  `json:"validity"`
	ValidUntil    *string `json:"valid_until"`
	Status        string  `json:"status"`
	ParentRef     int64   `json:"parent_ref,omitempty"`
	OCOGroup      int64   `json:"oco_group,omitempty"`
	ExecutedSize  float64 `json:"executed_size"`
	ExecutedPrice float64 `json:"executed_price"`
	Commission    float64 `json:"commission"`
	Reason        string  `json:"reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
	AcceptedAt    *string `json:"accepted_at"`
	TerminalAt    *string `json:"terminal_at"`
}

// submitOrderResponse is the JSON response for order submission,
// including bracket children when the shorthand was used.
type submitOrderResponse struct {
	Order    orderResponse   `json:"order"`
	Children []orderResponse `json:"children,omitempty"`
}

// Submit handles POST /sessions/{session_id}/orders.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var validUntil *time.Time
	if req.ValidUntil != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "valid_until must be a valid RFC 3339 timestamp")
			return
		}
		validUntil = &t
	}

	result, err := h.sessions.SubmitOrder(chi.URLParam(r, "session_id"), service.SubmitOrderRequest{
		Symbol:       req.Symbol,
		Kind:         req.Kind,
		Size:         req.Size,
		LimitPrice:   req.LimitPrice,
		StopPrice:    req.StopPrice,
		TrailAmount:  req.TrailAmount,
		TrailPercent: req.TrailPercent,
		Validity:     req.Validity,
		ValidUntil:   validUntil,
		OCOGroup:     req.OCOGroup,
		ParentRef:    req.ParentRef,
		TakeProfit:   req.TakeProfit,
		StopLoss:     req.StopLoss,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := submitOrderResponse{Order: buildOrderResponse(result.Order)}
	for _, child := range result.Children {
		resp.Children = append(resp.Children, buildOrderResponse(child))
	}
	WriteJSON(w, http.StatusCreated, resp)
}

// Get handles GET /sessions/{session_id}/orders/{ref}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := strconv.ParseInt(chi.URLParam(r, "ref"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "ref must be an integer")
		return
	}

	order, err := h.sessions.GetOrder(chi.URLParam(r, "session_id"), ref)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// List handles GET /sessions/{session_id}/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.sessions.ListOrders(chi.URLParam(r, "session_id"), r.URL.Query().Get("status"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, buildOrderResponse(o))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": out})
}

// Cancel handles DELETE /sessions/{session_id}/orders/{ref}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ref, err := strconv.ParseInt(chi.URLParam(r, "ref"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "ref must be an integer")
		return
	}

	result, err := h.sessions.CancelOrder(chi.URLParam(r, "session_id"), ref)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	switch result {
	case engine.CancelSuccess:
		order, err := h.sessions.GetOrder(chi.URLParam(r, "session_id"), ref)
		if err != nil {
			mapDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, buildOrderResponse(order))
	case engine.CancelNotFound:
		WriteError(w, http.StatusNotFound, "order_not_found", "Order not found")
	case engine.CancelAlreadyTerminal:
		WriteError(w, http.StatusConflict, "order_not_cancellable", "Order is already in a terminal state")
	}
}

func buildOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		Ref:           o.Ref,
		Symbol:        o.Symbol,
		Kind:          string(o.Kind),
		Size:          o.Size,
		LimitPrice:    o.LimitPrice,
		StopPrice:     o.StopPrice,
		TrailAmount:   o.TrailAmount,
		TrailPercent:  o.TrailPercent,
		Validity:      string(o.Validity.Kind),
		Status:        string(o.Status),
		ParentRef:     o.ParentRef,
		OCOGroup:      o.OCOGroup,
		ExecutedSize:  o.ExecutedSize,
		ExecutedPrice: o.ExecutedPrice,
		Commission:    o.Commission,
		Reason:        o.Reason,
		CreatedAt:     o.CreatedAt.UTC().Format(timeFormat),
	}
	if !o.Validity.Until.IsZero() {
		until := o.Validity.Until.UTC().Format(timeFormat)
		resp.ValidUntil = &until
	}
	if o.AcceptedAt != nil {
		acceptedAt := o.AcceptedAt.UTC().Format(timeFormat)
		resp.AcceptedAt = &acceptedAt
	}
	if o.TerminalAt != nil {
		terminalAt := o.TerminalAt.UTC().Format(timeFormat)
		resp.TerminalAt = &terminalAt
	}
	return resp
}
