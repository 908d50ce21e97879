package engine

import (
	"testing"

	"github.com/bench-prog/barsim/internal/domain"
)

func slipBar() domain.Bar {
	return domain.Bar{Symbol: "ACME", Open: 100, High: 105, Low: 95, Close: 101, Volume: 1000}
}

func TestSlippagePolicy_Apply(t *testing.T) {
	tests := []struct {
		name      string
		policy    SlippagePolicy
		price     float64
		buy       bool
		wantPrice float64
		wantOK    bool
	}{
		{"none passes through", SlippagePolicy{Kind: SlippageNone}, 100, true, 100, true},
		{"fixed buy slips up", SlippagePolicy{Kind: SlippageFixed, Amount: 0.5}, 100, true, 100.5, true},
		{"fixed sell slips down", SlippagePolicy{Kind: SlippageFixed, Amount: 0.5}, 100, false, 99.5, true},
		{"percent buy slips up", SlippagePolicy{Kind: SlippagePercent, Amount: 0.01}, 100, true, 101, true},
		{"percent sell slips down", SlippagePolicy{Kind: SlippagePercent, Amount: 0.01}, 100, false, 99, true},
		{"out of range without clip abandons", SlippagePolicy{Kind: SlippageFixed, Amount: 10}, 100, true, 0, false},
		{"out of range clips to high", SlippagePolicy{Kind: SlippageFixed, Amount: 10, Clip: true}, 100, true, 105, true},
		{"out of range clips to low", SlippagePolicy{Kind: SlippageFixed, Amount: 10, Clip: true}, 100, false, 95, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.policy.Apply(tt.price, tt.buy, slipBar())
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.wantPrice {
				t.Errorf("price = %f, want %f", got, tt.wantPrice)
			}
		})
	}
}

func TestSlippagePolicy_Valid(t *testing.T) {
	tests := []struct {
		name   string
		policy SlippagePolicy
		want   bool
	}{
		{"none", SlippagePolicy{Kind: SlippageNone}, true},
		{"fixed", SlippagePolicy{Kind: SlippageFixed, Amount: 1}, true},
		{"fixed negative amount", SlippagePolicy{Kind: SlippageFixed, Amount: -1}, false},
		{"unknown kind", SlippagePolicy{Kind: "weird"}, false},
		{"empty kind", SlippagePolicy{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
