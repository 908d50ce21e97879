package domain

import (
	"fmt"
	"time"
)

// Bar is a single OHLCV observation for one symbol. Bars must arrive in
// strictly increasing timestamp order per symbol.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Validate checks the internal consistency of the bar. A malformed bar is
// the one fatal input condition: the run stops with a descriptive error
// instead of producing incorrect fills.
func (b Bar) Validate() error {
	if b.Symbol == "" {
		return fmt.Errorf("%w: missing symbol", ErrMalformedBar)
	}
	if b.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp for %s", ErrMalformedBar, b.Symbol)
	}
	if b.High < b.Low {
		return fmt.Errorf("%w: %s high %.6f < low %.6f", ErrMalformedBar, b.Symbol, b.High, b.Low)
	}
	if b.Open > b.High || b.Open < b.Low {
		return fmt.Errorf("%w: %s open %.6f outside [%.6f, %.6f]", ErrMalformedBar, b.Symbol, b.Open, b.Low, b.High)
	}
	if b.Close > b.High || b.Close < b.Low {
		return fmt.Errorf("%w: %s close %.6f outside [%.6f, %.6f]", ErrMalformedBar, b.Symbol, b.Close, b.Low, b.High)
	}
	if b.Volume < 0 {
		return fmt.Errorf("%w: %s negative volume %.6f", ErrMalformedBar, b.Symbol, b.Volume)
	}
	return nil
}
