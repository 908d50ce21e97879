package service

import (
	"errors"
	"testing"
	"time"

	"github.com/bench-prog/barsim/internal/domain"
)

func TestSubscribe_ReceivesBarBatches(t *testing.T) {
	svc, id := newTestSession(t)

	ch, unsubscribe, err := svc.Subscribe(id)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()

	if _, err := svc.SubmitOrder(id, SubmitOrderRequest{Symbol: "ACME", Kind: "market", Size: 1}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if _, err := svc.ProcessBars(id, []domain.Bar{
		{Symbol: "ACME", Timestamp: ts, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000},
	}); err != nil {
		t.Fatalf("ProcessBars: %v", err)
	}

	select {
	case batch := <-ch:
		if len(batch) == 0 {
			t.Error("expected a non-empty batch")
		}
	default:
		t.Error("expected a buffered batch after the bar")
	}
}

func TestSubscribe_UnknownSession(t *testing.T) {
	svc := NewSessionService()
	if _, _, err := svc.Subscribe("nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestUnsubscribe_ClosesChannelOnce(t *testing.T) {
	svc, id := newTestSession(t)

	ch, unsubscribe, err := svc.Subscribe(id)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	unsubscribe()
	unsubscribe() // second call must be a no-op

	if _, open := <-ch; open {
		t.Error("expected a closed channel after unsubscribe")
	}
}
