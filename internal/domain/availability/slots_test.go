package availability

import (
	"reflect"
	"testing"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mondayTemplate(duration, buffer int) *models.AvailabilityTemplate {
	return &models.AvailabilityTemplate{
		ID:              1,
		DurationMinutes: duration,
		BufferMinutes:   buffer,
		Timezone:        "UTC",
		IsActive:        true,
		Rules: []models.AvailabilityRule{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		},
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestGenerateSlots_StepIsDurationPlusBuffer(t *testing.T) {
	tpl := mondayTemplate(30, 15)
	now := monday.Add(-24 * time.Hour)

	slots := GenerateSlots(tpl, monday, nil, now)

	if len(slots) != 11 {
		t.Fatalf("expected 11 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(9, 0)) || !slots[0].End.Equal(at(9, 30)) {
		t.Fatalf("unexpected first slot %v-%v", slots[0].Start, slots[0].End)
	}
	last := slots[len(slots)-1]
	if !last.Start.Equal(at(16, 30)) || !last.End.Equal(at(17, 0)) {
		t.Fatalf("unexpected last slot %v-%v", last.Start, last.End)
	}

	for i, s := range slots {
		if !s.Available {
			t.Fatalf("slot %d should be available", i)
		}
		if s.End.Sub(s.Start) != 30*time.Minute {
			t.Fatalf("slot %d has length %v", i, s.End.Sub(s.Start))
		}
		if s.End.After(at(17, 0)) {
			t.Fatalf("slot %d crosses rule end: %v", i, s.End)
		}
		if i > 0 && s.Start.Sub(slots[i-1].Start) != 45*time.Minute {
			t.Fatalf("slot %d is not 45 minutes after the previous one", i)
		}
	}
}

func TestGenerateSlots_WindowShorterThanDuration(t *testing.T) {
	tpl := mondayTemplate(30, 0)
	tpl.Rules[0].EndTime = "09:20"

	slots := GenerateSlots(tpl, monday, nil, monday.Add(-time.Hour))
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestGenerateSlots_NoRuleForWeekday(t *testing.T) {
	tpl := mondayTemplate(30, 0)
	tuesday := monday.AddDate(0, 0, 1)

	slots := GenerateSlots(tpl, tuesday, nil, monday)
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", slots)
	}
}

func TestGenerateSlots_IgnoresUnavailableRules(t *testing.T) {
	tpl := mondayTemplate(60, 0)
	tpl.Rules = append(tpl.Rules, models.AvailabilityRule{
		DayOfWeek: 1, StartTime: "18:00", EndTime: "20:00", IsAvailable: false,
	})

	slots := GenerateSlots(tpl, monday, nil, monday.Add(-time.Hour))
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}
}

func TestGenerateSlots_BookedSlotUnavailable(t *testing.T) {
	tpl := mondayTemplate(30, 15)
	bookings := []models.Booking{
		{TemplateID: 1, StartTime: at(10, 30), EndTime: at(11, 0), Status: models.BookingStatusConfirmed},
		{TemplateID: 1, StartTime: at(12, 0), EndTime: at(12, 30), Status: models.BookingStatusCancelled},
	}

	slots := GenerateSlots(tpl, monday, bookings, monday.Add(-time.Hour))

	for _, s := range slots {
		wantAvailable := !s.Start.Equal(at(10, 30))
		if s.Available != wantAvailable {
			t.Fatalf("slot %v: expected available=%v", s.Start, wantAvailable)
		}
	}
}

func TestGenerateSlots_TouchingBookingDoesNotBlock(t *testing.T) {
	tpl := mondayTemplate(30, 15)
	bookings := []models.Booking{
		{TemplateID: 1, StartTime: at(9, 30), EndTime: at(9, 45), Status: models.BookingStatusPending},
	}

	slots := GenerateSlots(tpl, monday, bookings, monday.Add(-time.Hour))

	s, ok := FindSlot(slots, at(9, 0))
	if !ok || !s.Available {
		t.Fatalf("09:00 slot should stay available")
	}
	s, ok = FindSlot(slots, at(9, 45))
	if !ok || !s.Available {
		t.Fatalf("09:45 slot should stay available")
	}
}

func TestGenerateSlots_PastSlotsUnavailable(t *testing.T) {
	tpl := mondayTemplate(60, 0)
	now := at(12, 0)

	slots := GenerateSlots(tpl, monday, nil, now)

	for _, s := range slots {
		if s.Available != s.Start.After(now) {
			t.Fatalf("slot %v: available=%v with now=%v", s.Start, s.Available, now)
		}
	}
	if s, _ := FindSlot(slots, at(12, 0)); s.Available {
		t.Fatalf("slot starting exactly at now must not be available")
	}
}

func TestGenerateSlots_MultipleRulesSorted(t *testing.T) {
	tpl := mondayTemplate(60, 0)
	tpl.Rules = []models.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00", IsAvailable: true},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
	}

	slots := GenerateSlots(tpl, monday, nil, monday.Add(-time.Hour))
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(at(9, 0)) || !slots[1].Start.Equal(at(14, 0)) {
		t.Fatalf("slots not ordered by start: %v, %v", slots[0].Start, slots[1].Start)
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	tpl := mondayTemplate(30, 15)
	bookings := []models.Booking{
		{TemplateID: 1, StartTime: at(11, 15), EndTime: at(11, 45), Status: models.BookingStatusConfirmed},
	}
	now := at(10, 0)

	a := GenerateSlots(tpl, monday, bookings, now)
	b := GenerateSlots(tpl, monday, bookings, now)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs produced different slots")
	}
}

func TestGenerateSlots_KeepsWallClockAcrossDST(t *testing.T) {
	// DST starts in New York on Sunday 2026-03-08.
	tpl := &models.AvailabilityTemplate{
		ID:              1,
		DurationMinutes: 60,
		Timezone:        "America/New_York",
		Rules: []models.AvailabilityRule{
			{DayOfWeek: 0, StartTime: "09:00", EndTime: "11:00", IsAvailable: true},
		},
	}
	loc, _ := time.LoadLocation("America/New_York")
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)

	slots := GenerateSlots(tpl, day, nil, day.Add(-48*time.Hour))
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	local := slots[0].Start.In(loc)
	if local.Hour() != 9 || local.Minute() != 0 {
		t.Fatalf("expected 09:00 local, got %v", local)
	}
	if got := slots[0].Start.UTC().Hour(); got != 13 {
		t.Fatalf("expected 13:00 UTC after the switch, got %d", got)
	}
}

func TestListAvailableDates(t *testing.T) {
	tpl := mondayTemplate(30, 0)
	tpl.Rules = append(tpl.Rules,
		models.AvailabilityRule{DayOfWeek: 3, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
		models.AvailabilityRule{DayOfWeek: 5, StartTime: "09:00", EndTime: "12:00", IsAvailable: false},
	)

	dates := ListAvailableDates(tpl, 7, at(8, 0))

	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if dates[0].Weekday() != time.Monday || dates[1].Weekday() != time.Wednesday {
		t.Fatalf("unexpected weekdays %v, %v", dates[0].Weekday(), dates[1].Weekday())
	}

	if got := ListAvailableDates(tpl, 0, at(8, 0)); len(got) != 0 {
		t.Fatalf("expected no dates for zero look-ahead, got %d", len(got))
	}
}
