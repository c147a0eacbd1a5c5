package booking

import (
	"testing"
	"time"

	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

func TestCancelTransitions(t *testing.T) {
	now := time.Now()

	for _, from := range []Status{StatusPending, StatusConfirmed} {
		b := &models.Booking{Status: string(from)}
		if err := Cancel(b, now); err != nil {
			t.Errorf("cancel from %s: %v", from, err)
		}
		if b.Status != string(StatusCancelled) || b.CancelledAt == nil {
			t.Errorf("cancel from %s left status=%s cancelledAt=%v", from, b.Status, b.CancelledAt)
		}
	}

	for _, from := range []Status{StatusCancelled, StatusCompleted, StatusNoShow} {
		b := &models.Booking{Status: string(from)}
		err := Cancel(b, now)
		if !httperr.IsBusiness(err, "invalid_state") {
			t.Errorf("cancel from %s: expected invalid_state, got %v", from, err)
		}
		if b.Status != string(from) {
			t.Errorf("failed cancel mutated status to %s", b.Status)
		}
	}
}

func TestCompleteOnlyFromConfirmed(t *testing.T) {
	now := time.Now()

	b := &models.Booking{Status: string(StatusConfirmed)}
	if err := Complete(b, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if b.Status != string(StatusCompleted) || b.CompletedAt == nil {
		t.Fatalf("complete left status=%s", b.Status)
	}

	for _, from := range []Status{StatusPending, StatusCancelled, StatusCompleted, StatusNoShow} {
		b := &models.Booking{Status: string(from)}
		if err := Complete(b, now); !httperr.IsBusiness(err, "invalid_state") {
			t.Errorf("complete from %s: expected invalid_state, got %v", from, err)
		}
	}
}

func TestMarkNoShowOnlyFromConfirmed(t *testing.T) {
	b := &models.Booking{Status: string(StatusConfirmed)}
	if err := MarkNoShow(b); err != nil {
		t.Fatalf("no-show: %v", err)
	}
	if b.Status != string(StatusNoShow) {
		t.Fatalf("no-show left status=%s", b.Status)
	}

	b = &models.Booking{Status: string(StatusCompleted)}
	if err := MarkNoShow(b); !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("no-show from COMPLETED: expected invalid_state, got %v", err)
	}
}
