package engine

import (
	"sync"

	"github.com/bench-prog/barsim/internal/domain"
	"github.com/google/btree"
)

// queueEntry represents a single order eligible for matching.
type queueEntry struct {
	Seq   int64 // submission sequence, assigned by the broker
	Ref   int64
	Order *domain.Order
}

// seqLess orders entries by submission sequence. Within a bar, orders
// are matched in strict submission order.
func seqLess(a, b queueEntry) bool {
	return a.Seq < b.Seq
}

// pendingQueue holds the live orders for one symbol in submission order,
// backed by a B-tree with a secondary index for O(log n) removal by ref.
type pendingQueue struct {
	symbol  string
	entries *btree.BTreeG[queueEntry]
	index   map[int64]queueEntry // ref → entry
}

// newPendingQueue creates a pending queue for the given symbol.
func newPendingQueue(symbol string) *pendingQueue {
	const degree = 32
	return &pendingQueue{
		symbol:  symbol,
		entries: btree.NewG[queueEntry](degree, seqLess),
		index:   make(map[int64]queueEntry),
	}
}

// Insert adds an entry to the queue.
func (q *pendingQueue) Insert(entry queueEntry) {
	q.entries.ReplaceOrInsert(entry)
	q.index[entry.Ref] = entry
}

// Remove deletes an order from the queue by ref using the secondary
// index. It is a no-op for refs not on the queue.
func (q *pendingQueue) Remove(ref int64) {
	entry, ok := q.index[ref]
	if !ok {
		return
	}
	delete(q.index, ref)
	q.entries.Delete(entry)
}

// Contains reports whether the ref is on the queue.
func (q *pendingQueue) Contains(ref int64) bool {
	_, ok := q.index[ref]
	return ok
}

// Snapshot returns the queued orders in submission order. The matching
// pass iterates the snapshot so that orders enqueued mid-pass (bracket
// children activated by a parent fill) only become matchable on the
// next bar.
func (q *pendingQueue) Snapshot() []*domain.Order {
	out := make([]*domain.Order, 0, q.entries.Len())
	q.entries.Ascend(func(entry queueEntry) bool {
		out = append(out, entry.Order)
		return true
	})
	return out
}

// Len returns the number of queued orders.
func (q *pendingQueue) Len() int {
	return q.entries.Len()
}

// queueSet is a map of symbol → pendingQueue.
type queueSet struct {
	mu     sync.RWMutex
	queues map[string]*pendingQueue
}

// newQueueSet creates an empty queueSet.
func newQueueSet() *queueSet {
	return &queueSet{
		queues: make(map[string]*pendingQueue),
	}
}

// GetOrCreate returns the pending queue for the given symbol, creating
// one if it doesn't already exist.
func (qs *queueSet) GetOrCreate(symbol string) *pendingQueue {
	qs.mu.RLock()
	q, ok := qs.queues[symbol]
	qs.mu.RUnlock()
	if ok {
		return q
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()
	if q, ok = qs.queues[symbol]; ok {
		return q
	}
	q = newPendingQueue(symbol)
	qs.queues[symbol] = q
	return q
}
