package booking

import (
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// ===============================
// Booking Status
// ===============================

// ParseStatus accepts only the closed set of booking statuses.
func ParseStatus(s string) (models.BookingStatus, error) {
	switch st := models.BookingStatus(s); st {
	case models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
		models.BookingStatusNoShow:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// IsLive reports whether a booking in this status still occupies its slot.
func IsLive(s models.BookingStatus) bool {
	return s != models.BookingStatusCancelled
}

// InitialStatus is PENDING when the template needs advisor approval.
func InitialStatus(requiresApproval bool) models.BookingStatus {
	if requiresApproval {
		return models.BookingStatusPending
	}
	return models.BookingStatusConfirmed
}

// ===============================
// Validations
// ===============================

func CanConfirm(current models.BookingStatus) error {
	if current != models.BookingStatusPending {
		return invalid("confirm booking", current, "PENDING")
	}
	return nil
}

func CanCancel(current models.BookingStatus) error {
	switch current {
	case models.BookingStatusPending, models.BookingStatusConfirmed:
		return nil
	}
	return invalid("cancel booking", current, "PENDING or CONFIRMED")
}

func CanComplete(current models.BookingStatus) error {
	if current != models.BookingStatusConfirmed {
		return invalid("complete booking", current, "CONFIRMED")
	}
	return nil
}

func CanMarkNoShow(current models.BookingStatus) error {
	if current != models.BookingStatusConfirmed {
		return invalid("mark booking as no-show", current, "CONFIRMED")
	}
	return nil
}

func invalid(op string, current models.BookingStatus, required string) error {
	return &httperr.InvalidStateError{
		Operation: op,
		Current:   string(current),
		Required:  required,
	}
}
