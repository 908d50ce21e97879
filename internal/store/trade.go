package store

import (
	"sync"

	"github.com/bench-prog/barsim/internal/domain"
)

// TradeStore is a thread-safe archive of closed round trips, keyed by
// symbol. Trades are append-only and chronological.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string][]*domain.Trade // symbol → closed trades
	all    []*domain.Trade            // chronological across symbols
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[string][]*domain.Trade),
	}
}

// Append archives a closed trade.
func (s *TradeStore) Append(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[t.Symbol] = append(s.trades[t.Symbol], t)
	s.all = append(s.all, t)
}

// List returns all archived trades in chronological order.
func (s *TradeStore) List() []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Trade, len(s.all))
	copy(out, s.all)
	return out
}

// ListBySymbol returns archived trades for a symbol in chronological
// order. Returns an empty slice if no trades exist for the symbol.
func (s *TradeStore) ListBySymbol(symbol string) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := s.trades[symbol]
	out := make([]*domain.Trade, len(trades))
	copy(out, trades)
	return out
}
