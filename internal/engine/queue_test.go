package engine

import (
	"testing"

	"github.com/bench-prog/barsim/internal/domain"
)

func TestPendingQueue_SnapshotInSubmissionOrder(t *testing.T) {
	q := newPendingQueue("ACME")

	// Insert out of sequence order; the snapshot must still come back
	// ordered by Seq.
	for _, seq := range []int64{3, 1, 2} {
		q.Insert(queueEntry{Seq: seq, Ref: seq * 10, Order: &domain.Order{Ref: seq * 10}})
	}

	snap := q.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(snap))
	}
	for i, want := range []int64{10, 20, 30} {
		if snap[i].Ref != want {
			t.Errorf("snapshot[%d].Ref = %d, want %d", i, snap[i].Ref, want)
		}
	}
}

func TestPendingQueue_RemoveByRef(t *testing.T) {
	q := newPendingQueue("ACME")
	q.Insert(queueEntry{Seq: 1, Ref: 11, Order: &domain.Order{Ref: 11}})
	q.Insert(queueEntry{Seq: 2, Ref: 22, Order: &domain.Order{Ref: 22}})

	if !q.Contains(11) {
		t.Error("expected queue to contain ref 11")
	}

	q.Remove(11)
	if q.Contains(11) {
		t.Error("expected ref 11 removed")
	}
	if q.Len() != 1 {
		t.Errorf("expected len 1, got %d", q.Len())
	}

	// Removing an unknown ref is a no-op.
	q.Remove(999)
	if q.Len() != 1 {
		t.Errorf("expected len 1 after no-op remove, got %d", q.Len())
	}
}

func TestQueueSet_GetOrCreate(t *testing.T) {
	qs := newQueueSet()
	a := qs.GetOrCreate("ACME")
	b := qs.GetOrCreate("ACME")
	if a != b {
		t.Error("expected the same queue for the same symbol")
	}
	if qs.GetOrCreate("OTHER") == a {
		t.Error("expected distinct queues per symbol")
	}
}
