package dto

import (
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

type BookingListDTO struct {
	ID           uint      `json:"id"`
	TemplateID   uint      `json:"template_id"`
	TemplateName string    `json:"template_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	LocalDate    string    `json:"local_date"`
	LocalTime    string    `json:"local_time"`
	Status       string    `json:"status"`
	GuestName    string    `json:"guest_name"`
	GuestEmail   string    `json:"guest_email"`
	ContactID    *uint     `json:"contact_id"`
}

// NewBookingList renders bookings in the advisor's timezone.
func NewBookingList(bookings []models.Booking, tz string) []BookingListDTO {
	loc := timezone.Location(tz)
	out := make([]BookingListDTO, 0, len(bookings))

	for _, b := range bookings {
		local := b.StartTime.In(loc)
		item := BookingListDTO{
			ID:         b.ID,
			TemplateID: b.TemplateID,
			StartTime:  b.StartTime,
			EndTime:    b.EndTime,
			LocalDate:  local.Format(timezone.DateLayout),
			LocalTime:  local.Format("15:04"),
			Status:     string(b.Status),
			GuestName:  b.GuestName,
			GuestEmail: b.GuestEmail,
			ContactID:  b.ContactID,
		}
		if b.Template != nil {
			item.TemplateName = b.Template.Name
		}
		out = append(out, item)
	}
	return out
}
