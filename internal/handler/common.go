package handler

import (
	"errors"
	"net/http"

	"github.com/bench-prog/barsim/internal/domain"
)

// mapDomainError translates domain errors into HTTP responses. Errors
// not recognized here are internal.
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "session_not_found", "Session not found")
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", "Order not found")
	case errors.Is(err, domain.ErrMalformedBar), errors.Is(err, domain.ErrStaleBar):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_bar", err.Error())
	case errors.Is(err, domain.ErrCostModelFrozen):
		WriteError(w, http.StatusConflict, "cost_model_frozen", "Cost models are immutable once bars have been processed")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
