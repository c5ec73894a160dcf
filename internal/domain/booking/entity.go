package booking

import (
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking) error {
	if err := CanConfirm(b.Status); err != nil {
		return err
	}

	b.Status = models.BookingStatusConfirmed
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(b.Status); err != nil {
		return err
	}

	b.Status = models.BookingStatusCancelled
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(b.Status); err != nil {
		return err
	}

	b.Status = models.BookingStatusCompleted
	b.CompletedAt = &now
	return nil
}

// MarkNoShow is only allowed once the meeting has started.
func MarkNoShow(b *models.Booking, now time.Time) error {
	if err := CanMarkNoShow(b.Status); err != nil {
		return err
	}
	if now.Before(b.StartTime) {
		return invalid("mark booking as no-show", "NOT_STARTED", "a meeting that has started")
	}

	b.Status = models.BookingStatusNoShow
	return nil
}
