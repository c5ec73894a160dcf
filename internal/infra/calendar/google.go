// Package calendar mirrors confirmed bookings into a Google calendar.
package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type GoogleCalendar struct {
	srv        *gcal.Service
	calendarID string
	logger     *zap.Logger
}

func NewGoogleCalendar(ctx context.Context, calendarID string, logger *zap.Logger, opts ...option.ClientOption) (*GoogleCalendar, error) {
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{srv: srv, calendarID: calendarID, logger: logger}, nil
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, b *models.Booking, tpl *models.AvailabilityTemplate) (string, error) {
	ev := &gcal.Event{
		Summary:     fmt.Sprintf("%s with %s", tpl.Name, b.GuestName),
		Description: b.Notes,
		Start: &gcal.EventDateTime{
			DateTime: b.StartTime.Format(time.RFC3339),
			TimeZone: tpl.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: b.EndTime.Format(time.RFC3339),
			TimeZone: tpl.Timezone,
		},
		Attendees: []*gcal.EventAttendee{
			{Email: b.GuestEmail, DisplayName: b.GuestName},
		},
	}

	created, err := g.srv.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}

	g.logger.Info("calendar event created",
		zap.Uint("booking_id", b.ID),
		zap.String("event_id", created.Id),
	)
	return created.Id, nil
}

func (g *GoogleCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	if err := g.srv.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}
