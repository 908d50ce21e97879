package handler

import (
	"bufio"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bench-prog/barsim/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware. The CSV ingestion
// and websocket routes sit outside the JSON middleware group.
func NewRouter(sessions *service.SessionService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))

	sessionH := NewSessionHandler(sessions)
	orderH := NewOrderHandler(sessions)
	barH := NewBarHandler(sessions)
	streamH := NewStreamHandler(sessions, logger)

	// Health check and metrics.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// JSON routes.
	r.Group(func(r chi.Router) {
		r.Use(contentTypeJSON)

		r.Post("/sessions", sessionH.Create)
		r.Get("/sessions/{session_id}", sessionH.Get)
		r.Get("/sessions/{session_id}/trades", sessionH.ListTrades)
		r.Get("/sessions/{session_id}/journal", sessionH.Journal)

		r.Post("/sessions/{session_id}/orders", orderH.Submit)
		r.Get("/sessions/{session_id}/orders", orderH.List)
		r.Get("/sessions/{session_id}/orders/{ref}", orderH.Get)
		r.Delete("/sessions/{session_id}/orders/{ref}", orderH.Cancel)

		r.Post("/sessions/{session_id}/bars", barH.Process)
	})

	// Non-JSON routes.
	r.Post("/sessions/{session_id}/bars/csv", barH.ProcessCSV)
	r.Get("/sessions/{session_id}/stream", streamH.Stream)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Hijack passes through to the underlying writer so the websocket
// upgrade works behind the logging middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT,
// and PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
