package booking

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/booking"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// Effects are the best-effort side effects of booking changes. A failure
// here is logged and never undoes the booking write.
type Effects struct {
	Notifier Notifier
	Calendar CalendarSync
	Audit    *audit.Dispatcher
	Logger   *zap.Logger
	BaseURL  string
}

func orNoEffects(e *Effects) *Effects {
	if e == nil {
		return &Effects{}
	}
	return e
}

func (e *Effects) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Effects) email(ctx context.Context, b *models.Booking, subject, body string) {
	if e.Notifier == nil {
		return
	}
	if err := e.Notifier.SendEmail(ctx, b.GuestEmail, subject, body); err != nil {
		e.logger().Warn("booking email failed",
			zap.Uint("booking_id", b.ID),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}

// syncCalendar creates the external event for a confirmed booking and
// stores its id through save.
func (e *Effects) syncCalendar(
	ctx context.Context,
	b *models.Booking,
	tpl *models.AvailabilityTemplate,
	save func(context.Context, *models.Booking) error,
) {
	if e.Calendar == nil || b.Status != models.BookingStatusConfirmed || b.CalendarEventID != "" {
		return
	}

	id, err := e.Calendar.CreateEvent(ctx, b, tpl)
	if err != nil {
		e.logger().Warn("calendar sync failed", zap.Uint("booking_id", b.ID), zap.Error(err))
		return
	}

	b.CalendarEventID = id
	if err := save(ctx, b); err != nil {
		e.logger().Warn("store calendar event id failed", zap.Uint("booking_id", b.ID), zap.Error(err))
	}
}

func (e *Effects) removeCalendarEvent(ctx context.Context, b *models.Booking) {
	if e.Calendar == nil || b.CalendarEventID == "" {
		return
	}
	if err := e.Calendar.DeleteEvent(ctx, b.CalendarEventID); err != nil {
		e.logger().Warn("calendar delete failed", zap.Uint("booking_id", b.ID), zap.Error(err))
	}
}

func (e *Effects) record(ownerID uint, userID *uint, action string, b *models.Booking) {
	e.Audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   userID,
		Action:   action,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"status":      b.Status,
			"start_time":  b.StartTime.UTC(),
			"guest_email": b.GuestEmail,
		},
	})
}

// ======================================================
// MESSAGES
// ======================================================

func whenText(b *models.Booking, tpl *models.AvailabilityTemplate) string {
	loc := timezone.Location(tpl.Timezone)
	start := b.StartTime.In(loc)
	end := b.EndTime.In(loc)
	return fmt.Sprintf("%s, %s-%s (%s)",
		start.Format("Monday 2 January 2006"),
		start.Format("15:04"),
		end.Format("15:04"),
		loc.String(),
	)
}

func (e *Effects) icsLink(b *models.Booking) string {
	return fmt.Sprintf("%s/api/public/bookings/%d/ics?email=%s",
		strings.TrimRight(e.BaseURL, "/"), b.ID, url.QueryEscape(b.GuestEmail))
}

func createdMessage(e *Effects, b *models.Booking, tpl *models.AvailabilityTemplate) (string, string) {
	if b.Status == models.BookingStatusPending {
		return "Booking request received: " + tpl.Name,
			fmt.Sprintf("Hi %s,\n\nWe received your request for %s on %s.\nYou will get another email once it is confirmed.\n",
				b.GuestName, tpl.Name, whenText(b, tpl))
	}
	return confirmedMessage(e, b, tpl)
}

func confirmedMessage(e *Effects, b *models.Booking, tpl *models.AvailabilityTemplate) (string, string) {
	return "Booking confirmed: " + tpl.Name,
		fmt.Sprintf("Hi %s,\n\nYour %s is confirmed for %s.\nAdd it to your calendar: %s\n",
			b.GuestName, tpl.Name, whenText(b, tpl), e.icsLink(b))
}

func cancelledMessage(b *models.Booking, tpl *models.AvailabilityTemplate) (string, string) {
	return "Booking cancelled: " + tpl.Name,
		fmt.Sprintf("Hi %s,\n\nYour %s on %s has been cancelled.\n",
			b.GuestName, tpl.Name, whenText(b, tpl))
}

// ======================================================
// STATE CHANGE HELPER
// ======================================================

// transition loads an owner's booking, applies a domain action and saves.
func transition(
	ctx context.Context,
	repo domain.Repository,
	ownerID uint,
	bookingID uint,
	apply func(*models.Booking, time.Time) error,
	now time.Time,
) (*models.Booking, error) {

	b, err := repo.GetBookingForOwner(ctx, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := apply(b, now.UTC()); err != nil {
		return nil, err
	}

	if err := repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
