package availability

import (
	"testing"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 585 {
		t.Fatalf("expected 585, got %d", got)
	}

	if _, err := ParseClock("9h45"); err == nil {
		t.Fatalf("expected error for malformed time")
	}
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name  string
		rules []models.AvailabilityRule
		code  string
	}{
		{
			name: "ok with touching windows",
			rules: []models.AvailabilityRule{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
				{DayOfWeek: 1, StartTime: "12:00", EndTime: "17:00", IsAvailable: true},
			},
		},
		{
			name: "overlap on same day",
			rules: []models.AvailabilityRule{
				{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
				{DayOfWeek: 2, StartTime: "11:00", EndTime: "13:00", IsAvailable: true},
			},
			code: "overlapping_rules",
		},
		{
			name: "overlap with unavailable rule is fine",
			rules: []models.AvailabilityRule{
				{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
				{DayOfWeek: 2, StartTime: "11:00", EndTime: "13:00", IsAvailable: false},
			},
		},
		{
			name:  "bad day",
			rules: []models.AvailabilityRule{{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}},
			code:  "invalid_day_of_week",
		},
		{
			name:  "bad format",
			rules: []models.AvailabilityRule{{DayOfWeek: 1, StartTime: "9am", EndTime: "10:00"}},
			code:  "invalid_time_format",
		},
		{
			name:  "inverted range",
			rules: []models.AvailabilityRule{{DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}},
			code:  "invalid_time_range",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRules(tc.rules)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected %q, got %v", tc.code, err)
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	tpl := mondayTemplate(0, 0)
	if !httperr.IsBusiness(ValidateTemplate(tpl), "invalid_duration") {
		t.Fatalf("expected invalid_duration")
	}

	tpl = mondayTemplate(30, 0)
	tpl.Timezone = "Mars/Olympus"
	if !httperr.IsBusiness(ValidateTemplate(tpl), "invalid_timezone") {
		t.Fatalf("expected invalid_timezone")
	}

	tpl = mondayTemplate(30, 10)
	if err := ValidateTemplate(tpl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
