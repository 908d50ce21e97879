package domain

import "math"

// Position is a per-symbol holding: signed size and weighted-average
// entry price. A flat position has Size == 0 and Price == 0. Positions
// are created lazily on first fill and mutated only by the engine.
type Position struct {
	Symbol string
	Size   float64
	Price  float64
}

// FillEffect describes how a fill changed a position. Opened is the
// signed portion that extended exposure, Closed the signed portion that
// reduced it. RealizedPnL is price-only (no multiplier, no commission).
type FillEffect struct {
	Opened      float64
	Closed      float64
	RealizedPnL float64
	Reversed    bool
}

// sameSign treats zero as compatible with either direction.
func sameSign(a, b float64) bool {
	return a == 0 || b == 0 || (a > 0) == (b > 0)
}

// ApplyFill folds a signed fill at the given price into the position
// and returns the resulting effect.
//
// Same-direction additions move the average price to the convex
// combination of old average and fill price. Reductions realize
// |closed|·(price − avg)·sign(old size) and leave the average
// unchanged. A fill larger than the open size reverses the position:
// the old size is fully realized and the remainder opens a fresh
// position at the fill price.
func (p *Position) ApplyFill(size, price float64) FillEffect {
	if size == 0 {
		return FillEffect{}
	}

	if sameSign(p.Size, size) {
		newSize := p.Size + size
		p.Price = (p.Size*p.Price + size*price) / newSize
		p.Size = newSize
		return FillEffect{Opened: size}
	}

	// Opposite direction: reduce, flatten, or reverse.
	if math.Abs(size) <= math.Abs(p.Size)+sizeEps {
		closed := size
		if math.Abs(size) >= math.Abs(p.Size) {
			closed = -p.Size
		}
		pnl := math.Abs(closed) * (price - p.Price) * sign(p.Size)
		p.Size += closed
		if math.Abs(p.Size) <= sizeEps {
			p.Size = 0
			p.Price = 0
		}
		return FillEffect{Closed: closed, RealizedPnL: pnl}
	}

	// Reversal: realize the whole old size, then open the remainder.
	closed := -p.Size
	pnl := math.Abs(p.Size) * (price - p.Price) * sign(p.Size)
	opened := size + closed // remainder after flattening
	p.Size = opened
	p.Price = price
	return FillEffect{Opened: opened, Closed: closed, RealizedPnL: pnl, Reversed: true}
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
