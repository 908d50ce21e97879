package engine

import (
	"testing"
	"time"

	"github.com/bench-prog/barsim/internal/domain"
)

func gtdOrder(ref int64, until time.Time) *domain.Order {
	return &domain.Order{
		Ref:      ref,
		Symbol:   "ACME",
		Validity: domain.Validity{Kind: domain.ValidityGoodTillDate, Until: until},
	}
}

func TestExpiryIndex_DuePopsInDeadlineOrder(t *testing.T) {
	e := newExpiryIndex()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// Insert out of deadline order.
	e.Add(gtdOrder(2, base.Add(2*time.Hour)))
	e.Add(gtdOrder(1, base.Add(1*time.Hour)))
	e.Add(gtdOrder(3, base.Add(3*time.Hour)))

	due := e.Due("ACME", base.Add(2*time.Hour))
	if len(due) != 2 {
		t.Fatalf("expected 2 due orders, got %d", len(due))
	}
	if due[0].Ref != 1 || due[1].Ref != 2 {
		t.Errorf("expected refs [1 2], got [%d %d]", due[0].Ref, due[1].Ref)
	}

	// Already popped orders must not come back.
	if again := e.Due("ACME", base.Add(2*time.Hour)); len(again) != 0 {
		t.Errorf("expected no due orders on second call, got %d", len(again))
	}

	rest := e.Due("ACME", base.Add(4*time.Hour))
	if len(rest) != 1 || rest[0].Ref != 3 {
		t.Errorf("expected ref 3 due later, got %v", rest)
	}
}

func TestExpiryIndex_DeadlineAtBarIsDue(t *testing.T) {
	e := newExpiryIndex()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e.Add(gtdOrder(1, at))

	if due := e.Due("ACME", at); len(due) != 1 {
		t.Errorf("deadline exactly at the bar must expire, got %d due", len(due))
	}
}

func TestExpiryIndex_IgnoresOrdersWithoutDeadline(t *testing.T) {
	e := newExpiryIndex()
	e.Add(&domain.Order{Ref: 1, Symbol: "ACME", Validity: domain.Validity{Kind: domain.ValidityGoodTillCancel}})

	if due := e.Due("ACME", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)); len(due) != 0 {
		t.Errorf("good-till-cancel orders must never expire, got %d due", len(due))
	}
}

func TestExpiryIndex_Remove(t *testing.T) {
	e := newExpiryIndex()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e.Add(gtdOrder(1, base))
	e.Add(gtdOrder(2, base.Add(time.Hour)))

	e.Remove("ACME", 1)
	due := e.Due("ACME", base.Add(2*time.Hour))
	if len(due) != 1 || due[0].Ref != 2 {
		t.Errorf("expected only ref 2 due after removal, got %v", due)
	}
}

func TestEndOfDay(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want time.Time
	}{
		{
			"mid-day",
			time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
			time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"exactly midnight rolls to next day",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"month boundary",
			time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := endOfDay(tt.ts); !got.Equal(tt.want) {
				t.Errorf("endOfDay(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}
