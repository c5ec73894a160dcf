package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type Repository interface {
	// -------- Template --------
	GetTemplateByLink(
		ctx context.Context,
		link string,
	) (*models.AvailabilityTemplate, error)

	// -------- Contact --------
	GetOrCreateContact(
		ctx context.Context,
		ownerID uint,
		name string,
		email string,
		phone string,
	) (*models.Contact, error)

	// -------- Booking (create / conflict) --------

	// CreateBookingIfFree inserts b unless a live booking on the same
	// template overlaps it. The check and the insert run in one
	// transaction; a lost race returns *httperr.ConflictError.
	CreateBookingIfFree(
		ctx context.Context,
		b *models.Booking,
	) error

	ListLiveBookings(
		ctx context.Context,
		templateID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Booking (state change) --------
	GetBookingForOwner(
		ctx context.Context,
		bookingID uint,
		ownerID uint,
	) (*models.Booking, error)

	GetBooking(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Listing --------
	ListBookingsForOwner(
		ctx context.Context,
		ownerID uint,
		start time.Time,
		end time.Time,
		status *models.BookingStatus,
	) ([]models.Booking, error)

	ListConfirmedEndedBefore(
		ctx context.Context,
		before time.Time,
		limit int,
	) ([]models.Booking, error)
}
