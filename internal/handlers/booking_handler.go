package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/wealth-crm/internal/dto"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/httpresp"
	"github.com/BruksfildServices01/wealth-crm/internal/ical"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	ucBooking "github.com/BruksfildServices01/wealth-crm/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	list    *ucBooking.ListBookings
	confirm *ucBooking.ConfirmBooking
	cancel  *ucBooking.CancelBooking
	noShow  *ucBooking.MarkNoShow
}

func NewBookingHandler(
	list *ucBooking.ListBookings,
	confirm *ucBooking.ConfirmBooking,
	cancel *ucBooking.CancelBooking,
	noShow *ucBooking.MarkNoShow,
) *BookingHandler {
	return &BookingHandler{
		list:    list,
		confirm: confirm,
		cancel:  cancel,
		noShow:  noShow,
	}
}

func (h *BookingHandler) listInput(c *gin.Context) ucBooking.ListBookingsInput {
	return ucBooking.ListBookingsInput{
		OwnerID:  middleware.UserID(c),
		Timezone: middleware.Timezone(c),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Status:   c.Query("status"),
	}
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	in := h.listInput(c)

	bookings, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_bookings")
		return
	}

	httpresp.List(c, dto.NewBookingList(bookings, in.Timezone))
}

// ExportICS returns the same range as List as a calendar feed.
func (h *BookingHandler) ExportICS(c *gin.Context) {
	bookings, err := h.list.Execute(c.Request.Context(), h.listInput(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_bookings")
		return
	}

	events := make([]ical.Event, 0, len(bookings))
	for i := range bookings {
		events = append(events, ical.FromBooking(&bookings[i], bookings[i].Template))
	}

	body := ical.Generate(ical.Calendar{Name: "Bookings"}, events)
	c.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// ======================================================
// STATUS CHANGES
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.confirm.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_confirm_booking")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_cancel_booking")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.noShow.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_mark_no_show")
		return
	}
	httpresp.OK(c, b)
}
