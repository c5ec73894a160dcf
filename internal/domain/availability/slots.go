package availability

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// TimeSlot is one candidate meeting interval on a given date.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// ===============================
// Slot generation
// ===============================

// GenerateSlots expands the template's rules for the weekday of date into
// concrete slots. Cursor advances by duration+buffer and a slot is only
// emitted while it still ends inside the rule window. A slot is available
// when it starts after now and no live booking overlaps it.
//
// Wall-clock positions are built in the template's timezone, so DST days
// keep the advertised local times.
func GenerateSlots(
	tpl *models.AvailabilityTemplate,
	date time.Time,
	bookings []models.Booking,
	now time.Time,
) []TimeSlot {

	slots := []TimeSlot{}
	if tpl == nil || tpl.DurationMinutes <= 0 {
		return slots
	}

	loc := timezone.Location(tpl.Timezone)
	y, m, d := date.In(loc).Date()
	weekday := int(time.Date(y, m, d, 0, 0, 0, 0, loc).Weekday())

	duration := tpl.DurationMinutes
	step := duration + tpl.BufferMinutes

	for _, rule := range RulesForDay(tpl.Rules, weekday) {
		startMin, err := ParseClock(rule.StartTime)
		if err != nil {
			continue
		}
		endMin, err := ParseClock(rule.EndTime)
		if err != nil {
			continue
		}

		for cur := startMin; cur+duration <= endMin; cur += step {
			slots = append(slots, TimeSlot{
				Start: wallClock(y, m, d, cur, loc),
				End:   wallClock(y, m, d, cur+duration, loc),
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	for i := range slots {
		slots[i].Available = slots[i].Start.After(now) &&
			!overlapsLiveBooking(slots[i], bookings, tpl.ID)
	}

	return slots
}

// ListAvailableDates returns the dates in [today, today+lookAheadDays) whose
// weekday has at least one available rule. It does not look at bookings, so
// a returned date may still turn out fully booked.
func ListAvailableDates(
	tpl *models.AvailabilityTemplate,
	lookAheadDays int,
	now time.Time,
) []time.Time {

	dates := []time.Time{}
	if tpl == nil || lookAheadDays <= 0 {
		return dates
	}

	loc := timezone.Location(tpl.Timezone)
	y, m, d := now.In(loc).Date()

	for i := 0; i < lookAheadDays; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		if HasAvailableRule(tpl.Rules, int(day.Weekday())) {
			dates = append(dates, day)
		}
	}

	return dates
}

func wallClock(y int, m time.Month, d, minutes int, loc *time.Location) time.Time {
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

// FindSlot returns the slot starting exactly at start.
func FindSlot(slots []TimeSlot, start time.Time) (TimeSlot, bool) {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Touching endpoints do not count.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func overlapsLiveBooking(s TimeSlot, bookings []models.Booking, templateID uint) bool {
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		if b.TemplateID != 0 && templateID != 0 && b.TemplateID != templateID {
			continue
		}
		if Overlaps(s.Start, s.End, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
