package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/wealth-crm/internal/dto"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/ical"
	ucAvailability "github.com/BruksfildServices01/wealth-crm/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/wealth-crm/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated booking page API.
type PublicHandler struct {
	template *ucAvailability.GetPublicTemplate
	dates    *ucAvailability.ListDates
	slots    *ucAvailability.GetSlots
	create   *ucBooking.CreateBooking
	lookup   *ucBooking.GetGuestBooking
}

func NewPublicHandler(
	template *ucAvailability.GetPublicTemplate,
	dates *ucAvailability.ListDates,
	slots *ucAvailability.GetSlots,
	create *ucBooking.CreateBooking,
	lookup *ucBooking.GetGuestBooking,
) *PublicHandler {
	return &PublicHandler{
		template: template,
		dates:    dates,
		slots:    slots,
		create:   create,
		lookup:   lookup,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	GuestName  string `json:"guest_name" binding:"required"`
	GuestEmail string `json:"guest_email" binding:"required"`
	GuestPhone string `json:"guest_phone"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string `json:"time" binding:"required"` // HH:mm
	Notes      string `json:"notes"`
}

////////////////////////////////////////////////////////
// TEMPLATE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.template.Execute(c.Request.Context(), c.Param("link"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_template")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":              tpl.Name,
		"description":       tpl.Description,
		"duration_minutes":  tpl.DurationMinutes,
		"timezone":          tpl.Timezone,
		"requires_approval": tpl.RequiresApproval,
		"booking_link":      tpl.BookingLink,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) ListDates(c *gin.Context) {
	dates, err := h.dates.Execute(c.Request.Context(), c.Param("link"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_dates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (h *PublicHandler) ListSlots(c *gin.Context) {
	link := c.Param("link")
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	tpl, err := h.template.Execute(c.Request.Context(), link)
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_template")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), link, date)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_slots")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"timezone": tpl.Timezone,
		"slots":    dto.NewSlots(slots, tpl.Timezone),
	})
}

////////////////////////////////////////////////////////
// BOOKINGS
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req PublicCreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		BookingLink: c.Param("link"),
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		GuestPhone:  req.GuestPhone,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         b.ID,
		"status":     b.Status,
		"start_time": b.StartTime,
		"end_time":   b.EndTime,
	})
}

func (h *PublicHandler) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.lookup.Execute(c.Request.Context(), id, c.Query("email"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         b.ID,
		"status":     b.Status,
		"start_time": b.StartTime,
		"end_time":   b.EndTime,
		"guest_name": b.GuestName,
	})
}

// BookingICS serves a single-event calendar file for the guest.
func (h *PublicHandler) BookingICS(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.lookup.Execute(c.Request.Context(), id, c.Query("email"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_booking")
		return
	}

	body := ical.Generate(ical.Calendar{}, []ical.Event{ical.FromBooking(b, b.Template)})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="booking-%d.ics"`, b.ID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
