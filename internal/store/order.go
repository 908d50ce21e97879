package store

import (
	"sync"

	"github.com/bench-prog/barsim/internal/domain"
)

// OrderStore is a flat arena of orders keyed by integer ref, with a
// secondary chronological index in submission order. Entities reference
// each other through refs rather than pointers so the engine remains
// cheap to snapshot.
type OrderStore struct {
	mu      sync.RWMutex
	orders  map[int64]*domain.Order
	ordered []*domain.Order // submission order (append-only)
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[int64]*domain.Order),
	}
}

// Create adds an order to the arena. The caller assigns the ref.
func (s *OrderStore) Create(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.Ref] = o
	s.ordered = append(s.ordered, o)
}

// Get retrieves an order by ref. It returns domain.ErrOrderNotFound if
// the order does not exist.
func (s *OrderStore) Get(ref int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[ref]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// List returns all orders in submission order. If status is non-nil,
// only orders matching that status are included.
func (s *OrderStore) List(status *domain.OrderStatus) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Order, 0, len(s.ordered))
	for _, o := range s.ordered {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ListChildren returns the orders whose ParentRef matches the given ref,
// in submission order.
func (s *OrderStore) ListChildren(parentRef int64) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Order
	for _, o := range s.ordered {
		if o.ParentRef == parentRef {
			out = append(out, o)
		}
	}
	return out
}

// ListGroup returns the orders belonging to the given OCO group, in
// submission order. Group 0 always yields nil.
func (s *OrderStore) ListGroup(group int64) []*domain.Order {
	if group == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Order
	for _, o := range s.ordered {
		if o.OCOGroup == group {
			out = append(out, o)
		}
	}
	return out
}
