package engine

import (
	"testing"

	"github.com/bench-prog/barsim/internal/domain"
)

func TestFillPolicy_SizeFor(t *testing.T) {
	tests := []struct {
		name      string
		policy    FillPolicy
		remaining float64
		volume    float64
		want      float64
	}{
		{"all fills everything", FillPolicy{Kind: FillAll}, 42, 1000, 42},
		{"all fills short side", FillPolicy{Kind: FillAll}, -42, 1000, -42},
		{"fraction caps buy", FillPolicy{Kind: FillVolumeFraction, Fraction: 0.01}, 42, 1000, 10},
		{"fraction caps sell", FillPolicy{Kind: FillVolumeFraction, Fraction: 0.01}, -42, 1000, -10},
		{"fraction below cap fills fully", FillPolicy{Kind: FillVolumeFraction, Fraction: 0.01}, 7, 1000, 7},
		{"zero volume yields no fill", FillPolicy{Kind: FillVolumeFraction, Fraction: 0.5}, 7, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := domain.Bar{Symbol: "ACME", Open: 100, High: 101, Low: 99, Close: 100, Volume: tt.volume}
			if got := tt.policy.SizeFor(tt.remaining, bar); got != tt.want {
				t.Errorf("SizeFor(%f) = %f, want %f", tt.remaining, got, tt.want)
			}
		})
	}
}

func TestFillPolicy_Valid(t *testing.T) {
	tests := []struct {
		name   string
		policy FillPolicy
		want   bool
	}{
		{"all", FillPolicy{Kind: FillAll}, true},
		{"fraction in range", FillPolicy{Kind: FillVolumeFraction, Fraction: 0.25}, true},
		{"fraction of one", FillPolicy{Kind: FillVolumeFraction, Fraction: 1}, true},
		{"fraction zero", FillPolicy{Kind: FillVolumeFraction}, false},
		{"fraction above one", FillPolicy{Kind: FillVolumeFraction, Fraction: 1.5}, false},
		{"unknown kind", FillPolicy{Kind: "weird"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
