package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	"github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/booking"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
	"github.com/BruksfildServices01/wealth-crm/internal/validators"
)

const slotLockTTL = 15 * time.Second

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BookingLink string

	GuestName  string
	GuestEmail string
	GuestPhone string

	// Local date and time in the template's timezone.
	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	locker  Locker
	effects *Effects
	clock   timezone.Clock
}

func NewCreateBooking(
	repo domain.Repository,
	locker Locker,
	effects *Effects,
	clock timezone.Clock,
) *CreateBooking {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &CreateBooking{
		repo:    repo,
		locker:  locker,
		effects: orNoEffects(effects),
		clock:   clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// Guest details
	// --------------------------------------------------
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = validators.NormalizeEmail(in.GuestEmail)
	if in.GuestName == "" {
		return nil, httperr.ErrBusiness("guest_name_required")
	}
	if !validators.IsEmail(in.GuestEmail) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	// --------------------------------------------------
	// Template (active only)
	// --------------------------------------------------
	tpl, err := uc.repo.GetTemplateByLink(ctx, in.BookingLink)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, httperr.NotFoundf("template", in.BookingLink)
	}

	// --------------------------------------------------
	// Date / time in the template timezone
	// --------------------------------------------------
	loc := timezone.Location(tpl.Timezone)
	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := uc.clock()
	notice := time.Duration(tpl.MinNoticeMinutes) * time.Minute
	if !start.After(now) {
		return nil, httperr.ErrBusiness("slot_in_past")
	}
	if start.Before(now.Add(notice)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// The start must be one of the generated slots
	// --------------------------------------------------
	day := timezone.StartOfDay(start, loc)
	live, err := uc.repo.ListLiveBookings(ctx, tpl.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	slots := availability.GenerateSlots(tpl, day, live, now)
	slot, ok := availability.FindSlot(slots, start)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_slot")
	}
	if !slot.Available {
		return nil, &httperr.ConflictError{}
	}

	// --------------------------------------------------
	// Fast path against duplicate submissions
	// --------------------------------------------------
	if uc.locker != nil {
		key := fmt.Sprintf("booking:slot:%d:%d", tpl.ID, slot.Start.Unix())
		release, acquired, err := uc.locker.Acquire(ctx, key, slotLockTTL)
		if err != nil {
			// The database still guards the slot.
			uc.effects.logger().Warn("slot lock unavailable", zap.Error(err))
		} else if !acquired {
			return nil, &httperr.ConflictError{}
		} else {
			defer release()
		}
	}

	// --------------------------------------------------
	// Contact (get or create)
	// --------------------------------------------------
	contact, err := uc.repo.GetOrCreateContact(
		ctx,
		tpl.OwnerID,
		in.GuestName,
		in.GuestEmail,
		in.GuestPhone,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Booking (status from template policy)
	// --------------------------------------------------
	b := &models.Booking{
		TemplateID: tpl.ID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		GuestPhone: in.GuestPhone,
		StartTime:  slot.Start,
		EndTime:    slot.End,
		Status:     domain.InitialStatus(tpl.RequiresApproval),
		Notes:      in.Notes,
		ContactID:  &contact.ID,
	}

	if err := uc.repo.CreateBookingIfFree(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	subject, body := createdMessage(uc.effects, b, tpl)
	uc.effects.email(ctx, b, subject, body)
	uc.effects.syncCalendar(ctx, b, tpl, uc.repo.UpdateBooking)
	uc.effects.record(tpl.OwnerID, nil, audit.ActionBookingCreated, b)

	uc.effects.logger().Info("booking created",
		zap.Uint("booking_id", b.ID),
		zap.Uint("template_id", tpl.ID),
		zap.String("status", string(b.Status)),
	)

	return b, nil
}
