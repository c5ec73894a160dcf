// Package ical renders bookings as RFC 5545 calendars.
package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

const prodID = "-//wealth-crm//bookings//EN"

type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Status      string // TENTATIVE, CONFIRMED, CANCELLED
	Organizer   string
	Attendee    string
	Stamp       time.Time
}

type Calendar struct {
	Name   string
	Method string // PUBLISH unless set
}

// FromBooking maps a booking to an event. The template is optional and only
// supplies the title.
func FromBooking(b *models.Booking, tpl *models.AvailabilityTemplate) Event {
	summary := "Meeting with " + b.GuestName
	if tpl != nil && tpl.Name != "" {
		summary = tpl.Name + " with " + b.GuestName
	}

	return Event{
		UID:         fmt.Sprintf("booking-%d@wealth-crm", b.ID),
		Summary:     summary,
		Description: b.Notes,
		Start:       b.StartTime,
		End:         b.EndTime,
		Status:      eventStatus(b.Status),
		Attendee:    b.GuestEmail,
		Stamp:       b.UpdatedAt,
	}
}

func eventStatus(s models.BookingStatus) string {
	switch s {
	case models.BookingStatusPending:
		return "TENTATIVE"
	case models.BookingStatusCancelled:
		return "CANCELLED"
	}
	return "CONFIRMED"
}

// Generate produces a complete iCalendar document.
func Generate(cal Calendar, events []Event) string {
	var b strings.Builder

	method := cal.Method
	if method == "" {
		method = "PUBLISH"
	}

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	writeProp(&b, "PRODID", prodID)
	writeProp(&b, "METHOD", method)
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	if cal.Name != "" {
		writeProp(&b, "X-WR-CALNAME", escapeText(cal.Name))
	}

	for _, e := range events {
		writeEvent(&b, e)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func writeEvent(b *strings.Builder, e Event) {
	stamp := e.Stamp
	if stamp.IsZero() {
		stamp = e.Start
	}

	b.WriteString("BEGIN:VEVENT\r\n")
	writeProp(b, "UID", e.UID)
	writeProp(b, "DTSTAMP", formatDateTime(stamp))
	writeProp(b, "DTSTART", formatDateTime(e.Start))
	writeProp(b, "DTEND", formatDateTime(e.End))
	writeProp(b, "SUMMARY", escapeText(e.Summary))

	if e.Description != "" {
		writeProp(b, "DESCRIPTION", escapeText(e.Description))
	}
	if e.Location != "" {
		writeProp(b, "LOCATION", escapeText(e.Location))
	}
	if e.Status != "" {
		writeProp(b, "STATUS", e.Status)
	}
	if e.Organizer != "" {
		writeProp(b, "ORGANIZER", "mailto:"+e.Organizer)
	}
	if e.Attendee != "" {
		writeProp(b, "ATTENDEE;ROLE=REQ-PARTICIPANT", "mailto:"+e.Attendee)
	}

	b.WriteString("END:VEVENT\r\n")
}

// writeProp folds lines longer than 75 octets.
func writeProp(b *strings.Builder, name, value string) {
	line := name + ":" + value
	for len(line) > 75 {
		b.WriteString(line[:75])
		b.WriteString("\r\n ")
		line = line[75:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
