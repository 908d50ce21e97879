package domain

import (
	"errors"
	"testing"
	"time"
)

func validBar() Bar {
	return Bar{
		Symbol:    "ACME",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Open:      100,
		High:      102,
		Low:       99,
		Close:     101,
		Volume:    5000,
	}
}

func TestBar_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Bar)
		valid  bool
	}{
		{"well-formed", func(b *Bar) {}, true},
		{"zero volume allowed", func(b *Bar) { b.Volume = 0 }, true},
		{"flat bar allowed", func(b *Bar) { b.Open, b.High, b.Low, b.Close = 100, 100, 100, 100 }, true},
		{"missing symbol", func(b *Bar) { b.Symbol = "" }, false},
		{"missing timestamp", func(b *Bar) { b.Timestamp = time.Time{} }, false},
		{"high below low", func(b *Bar) { b.High, b.Low = 99, 102 }, false},
		{"open above high", func(b *Bar) { b.Open = 103 }, false},
		{"open below low", func(b *Bar) { b.Open = 98 }, false},
		{"close above high", func(b *Bar) { b.Close = 103 }, false},
		{"close below low", func(b *Bar) { b.Close = 98 }, false},
		{"negative volume", func(b *Bar) { b.Volume = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBar()
			tt.mutate(&b)
			err := b.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrMalformedBar) {
					t.Errorf("expected ErrMalformedBar, got %v", err)
				}
			}
		})
	}
}
