package domain

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPosition_ApplyFill(t *testing.T) {
	tests := []struct {
		name      string
		startSize float64
		startAvg  float64
		fillSize  float64
		fillPrice float64
		wantSize  float64
		wantAvg   float64
		wantEff   FillEffect
	}{
		{
			name:     "open long from flat",
			fillSize: 10, fillPrice: 100,
			wantSize: 10, wantAvg: 100,
			wantEff: FillEffect{Opened: 10},
		},
		{
			name:      "add to long averages up",
			startSize: 10, startAvg: 100,
			fillSize: 10, fillPrice: 110,
			wantSize: 20, wantAvg: 105,
			wantEff: FillEffect{Opened: 10},
		},
		{
			name:      "reduce long realizes against average",
			startSize: 20, startAvg: 105,
			fillSize: -5, fillPrice: 110,
			wantSize: 15, wantAvg: 105,
			wantEff: FillEffect{Closed: -5, RealizedPnL: 25},
		},
		{
			name:      "flatten long at a loss",
			startSize: 10, startAvg: 100,
			fillSize: -10, fillPrice: 90,
			wantSize: 0, wantAvg: 0,
			wantEff: FillEffect{Closed: -10, RealizedPnL: -100},
		},
		{
			name:      "reverse long to short",
			startSize: 10, startAvg: 100,
			fillSize: -15, fillPrice: 110,
			wantSize: -5, wantAvg: 110,
			wantEff: FillEffect{Opened: -5, Closed: -10, RealizedPnL: 100, Reversed: true},
		},
		{
			name:     "open short from flat",
			fillSize: -10, fillPrice: 50,
			wantSize: -10, wantAvg: 50,
			wantEff: FillEffect{Opened: -10},
		},
		{
			name:      "add to short averages down",
			startSize: -10, startAvg: 50,
			fillSize: -10, fillPrice: 40,
			wantSize: -20, wantAvg: 45,
			wantEff: FillEffect{Opened: -10},
		},
		{
			name:      "cover part of short",
			startSize: -20, startAvg: 45,
			fillSize: 5, fillPrice: 40,
			wantSize: -15, wantAvg: 45,
			wantEff: FillEffect{Closed: 5, RealizedPnL: 25},
		},
		{
			name:      "reverse short to long",
			startSize: -10, startAvg: 50,
			fillSize: 25, fillPrice: 55,
			wantSize: 15, wantAvg: 55,
			wantEff: FillEffect{Opened: 15, Closed: 10, RealizedPnL: -50, Reversed: true},
		},
		{
			name:      "zero fill is a no-op",
			startSize: 10, startAvg: 100,
			fillSize: 0, fillPrice: 120,
			wantSize: 10, wantAvg: 100,
			wantEff: FillEffect{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Position{Symbol: "ACME", Size: tt.startSize, Price: tt.startAvg}
			eff := p.ApplyFill(tt.fillSize, tt.fillPrice)

			if !approx(p.Size, tt.wantSize) {
				t.Errorf("size = %f, want %f", p.Size, tt.wantSize)
			}
			if !approx(p.Price, tt.wantAvg) {
				t.Errorf("avg price = %f, want %f", p.Price, tt.wantAvg)
			}
			if !approx(eff.Opened, tt.wantEff.Opened) {
				t.Errorf("opened = %f, want %f", eff.Opened, tt.wantEff.Opened)
			}
			if !approx(eff.Closed, tt.wantEff.Closed) {
				t.Errorf("closed = %f, want %f", eff.Closed, tt.wantEff.Closed)
			}
			if !approx(eff.RealizedPnL, tt.wantEff.RealizedPnL) {
				t.Errorf("realized pnl = %f, want %f", eff.RealizedPnL, tt.wantEff.RealizedPnL)
			}
			if eff.Reversed != tt.wantEff.Reversed {
				t.Errorf("reversed = %v, want %v", eff.Reversed, tt.wantEff.Reversed)
			}
		})
	}
}

func TestPosition_ApplyFill_FlattenClearsPrice(t *testing.T) {
	p := &Position{Symbol: "ACME"}
	p.ApplyFill(3, 101.5)
	p.ApplyFill(-3, 99)
	if p.Size != 0 || p.Price != 0 {
		t.Errorf("flat position must be zero-valued, got size=%f price=%f", p.Size, p.Price)
	}
}
