package booking

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/booking"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

const maxListRange = 93 * 24 * time.Hour

type ListBookingsInput struct {
	OwnerID  uint
	Timezone string

	// YYYY-MM-DD, inclusive. Empty From means today, empty To means From+7d.
	From   string
	To     string
	Status string
}

type ListBookings struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListBookings(repo domain.Repository, clock timezone.Clock) *ListBookings {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &ListBookings{repo: repo, clock: clock}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) ([]models.Booking, error) {

	loc := timezone.Location(in.Timezone)

	from := timezone.StartOfDay(uc.clock(), loc)
	if in.From != "" {
		d, err := timezone.ParseDate(in.From, in.Timezone)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		from = d
	}

	to := from.AddDate(0, 0, 7)
	if in.To != "" {
		d, err := timezone.ParseDate(in.To, in.Timezone)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		to = d.AddDate(0, 0, 1)
	}

	if !to.After(from) || to.Sub(from) > maxListRange {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	var status *models.BookingStatus
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = &st
	}

	return uc.repo.ListBookingsForOwner(ctx, in.OwnerID, from, to, status)
}

// ======================================================
// PUBLIC LOOKUP
// ======================================================

type GetGuestBooking struct {
	repo domain.Repository
}

func NewGetGuestBooking(repo domain.Repository) *GetGuestBooking {
	return &GetGuestBooking{repo: repo}
}

// Execute returns a booking only to the guest who made it.
func (uc *GetGuestBooking) Execute(
	ctx context.Context,
	bookingID uint,
	guestEmail string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if guestEmail == "" || !strings.EqualFold(b.GuestEmail, strings.TrimSpace(guestEmail)) {
		return nil, httperr.NotFoundf("booking", bookingID)
	}
	return b, nil
}
