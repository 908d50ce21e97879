package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrOrderNotFound     = errors.New("order_not_found")
	ErrSymbolNotFound    = errors.New("symbol_not_found")
	ErrMalformedBar      = errors.New("malformed_bar")
	ErrStaleBar          = errors.New("stale_bar")
	ErrCostModelFrozen   = errors.New("cost_model_frozen")
	ErrInvalidTransition = errors.New("invalid_status_transition")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
