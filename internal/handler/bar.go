package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/bench-prog/barsim/internal/service"
)

// BarHandler handles HTTP requests for bar ingestion.
type BarHandler struct {
	sessions *service.SessionService
}

// NewBarHandler creates a new BarHandler.
func NewBarHandler(sessions *service.SessionService) *BarHandler {
	return &BarHandler{sessions: sessions}
}

// barRequest is one bar in the JSON request body. The body for
// POST /sessions/{session_id}/bars is either a single object or an
// array of them.
type barRequest struct {
	Symbol    string  `json:"symbol"`
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// barsResponse reports the per-bar results of an ingestion request.
// When a malformed bar stops the run, Error carries the reason and
// Results holds the bars applied before it.
type barsResponse struct {
	Results []service.BarResult `json:"results"`
	Error   string              `json:"error,omitempty"`
}

// Process handles POST /sessions/{session_id}/bars. The body is a
// single bar object or an array of them.
func (h *BarHandler) Process(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Request body could not be read")
		return
	}

	var reqs []barRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		var single barRequest
		if err := json.Unmarshal(body, &single); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request",
				"Request body must be a JSON bar or array of bars")
			return
		}
		reqs = []barRequest{single}
	}

	bars := make([]domain.Bar, 0, len(reqs))
	for _, req := range reqs {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "timestamp must be a valid RFC 3339 timestamp")
			return
		}
		bars = append(bars, domain.Bar{
			Symbol:    req.Symbol,
			Timestamp: ts,
			Open:      req.Open,
			High:      req.High,
			Low:       req.Low,
			Close:     req.Close,
			Volume:    req.Volume,
		})
	}

	h.process(w, chi.URLParam(r, "session_id"), bars)
}

// ProcessCSV handles POST /sessions/{session_id}/bars/csv with a
// text/csv body.
func (h *BarHandler) ProcessCSV(w http.ResponseWriter, r *http.Request) {
	bars, err := service.ParseBarsCSV(r.Body)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	h.process(w, chi.URLParam(r, "session_id"), bars)
}

// process runs the bars and writes the combined result. A bar that
// fails validation stops the run; the response still reports the bars
// applied before it.
func (h *BarHandler) process(w http.ResponseWriter, sessionID string, bars []domain.Bar) {
	results, err := h.sessions.ProcessBars(sessionID, bars)
	if err != nil {
		if results == nil {
			mapDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusUnprocessableEntity, barsResponse{Results: results, Error: err.Error()})
		return
	}
	WriteJSON(w, http.StatusOK, barsResponse{Results: results})
}
