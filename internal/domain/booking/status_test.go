package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(true); got != models.BookingStatusPending {
		t.Fatalf("expected PENDING, got %s", got)
	}
	if got := InitialStatus(false); got != models.BookingStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", got)
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("NO_SHOW"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("scheduled"); !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("expected invalid_status, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: models.BookingStatusConfirmed}
	if err := Cancel(b, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != models.BookingStatusCancelled || b.CancelledAt == nil {
		t.Fatalf("booking not cancelled: %+v", b)
	}

	if err := Cancel(b, now); !httperr.IsInvalidState(err) {
		t.Fatalf("expected invalid state on second cancel, got %v", err)
	}
}

func TestConfirmOnlyFromPending(t *testing.T) {
	b := &models.Booking{Status: models.BookingStatusPending}
	if err := Confirm(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Confirm(b); !httperr.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCompleteAndNoShow(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: models.BookingStatusPending, StartTime: start}
	if err := Complete(b, start); !httperr.IsInvalidState(err) {
		t.Fatalf("pending booking must not complete, got %v", err)
	}

	b.Status = models.BookingStatusConfirmed
	if err := MarkNoShow(b, start.Add(-time.Minute)); !httperr.IsInvalidState(err) {
		t.Fatalf("no-show before start must fail, got %v", err)
	}
	if err := MarkNoShow(b, start.Add(10*time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != models.BookingStatusNoShow {
		t.Fatalf("expected NO_SHOW, got %s", b.Status)
	}
}
