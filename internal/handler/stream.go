package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/bench-prog/barsim/internal/service"
)

// writeTimeout bounds each websocket write so a dead peer cannot pin
// the writer goroutine.
const writeTimeout = 10 * time.Second

// StreamHandler upgrades GET /sessions/{session_id}/stream to a
// websocket and pushes one notification batch per processed bar.
type StreamHandler struct {
	sessions *service.SessionService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(sessions *service.SessionService, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// Stream handles GET /sessions/{session_id}/stream.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ch, unsubscribe, err := h.sessions.Subscribe(sessionID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		unsubscribe()
		return
	}

	// Reader goroutine: discard client frames, detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		unsubscribe()
		_ = conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case notes, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(notes); err != nil {
				h.logger.Debug("stream write failed",
					slog.String("session_id", sessionID),
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
