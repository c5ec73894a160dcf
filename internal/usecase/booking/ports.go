package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// CalendarSync mirrors confirmed bookings to an external calendar.
type CalendarSync interface {
	CreateEvent(ctx context.Context, b *models.Booking, tpl *models.AvailabilityTemplate) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Locker turns away a second submission for the same slot while the
// first one is in flight.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}
