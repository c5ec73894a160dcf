package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/booking"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// ======================================================
// CONFIRM
// ======================================================

type ConfirmBooking struct {
	repo    domain.Repository
	effects *Effects
	clock   timezone.Clock
}

func NewConfirmBooking(repo domain.Repository, effects *Effects, clock timezone.Clock) *ConfirmBooking {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &ConfirmBooking{repo: repo, effects: orNoEffects(effects), clock: clock}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	ownerID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := transition(ctx, uc.repo, ownerID, bookingID,
		func(b *models.Booking, _ time.Time) error { return domain.Confirm(b) },
		uc.clock(),
	)
	if err != nil {
		return nil, err
	}

	subject, body := confirmedMessage(uc.effects, b, b.Template)
	uc.effects.email(ctx, b, subject, body)
	uc.effects.syncCalendar(ctx, b, b.Template, uc.repo.UpdateBooking)
	uc.effects.record(ownerID, &ownerID, audit.ActionBookingConfirmed, b)

	return b, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelBooking struct {
	repo    domain.Repository
	effects *Effects
	clock   timezone.Clock
}

func NewCancelBooking(repo domain.Repository, effects *Effects, clock timezone.Clock) *CancelBooking {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &CancelBooking{repo: repo, effects: orNoEffects(effects), clock: clock}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	ownerID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := transition(ctx, uc.repo, ownerID, bookingID, domain.Cancel, uc.clock())
	if err != nil {
		return nil, err
	}

	subject, body := cancelledMessage(b, b.Template)
	uc.effects.email(ctx, b, subject, body)
	uc.effects.removeCalendarEvent(ctx, b)
	uc.effects.record(ownerID, &ownerID, audit.ActionBookingCancelled, b)

	return b, nil
}

// ======================================================
// NO-SHOW
// ======================================================

type MarkNoShow struct {
	repo    domain.Repository
	effects *Effects
	clock   timezone.Clock
}

func NewMarkNoShow(repo domain.Repository, effects *Effects, clock timezone.Clock) *MarkNoShow {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &MarkNoShow{repo: repo, effects: orNoEffects(effects), clock: clock}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	ownerID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := transition(ctx, uc.repo, ownerID, bookingID, domain.MarkNoShow, uc.clock())
	if err != nil {
		return nil, err
	}

	uc.effects.record(ownerID, &ownerID, audit.ActionBookingNoShow, b)
	return b, nil
}
