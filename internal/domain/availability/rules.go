package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// RulesForDay returns the available rules for a weekday, ordered by start.
func RulesForDay(rules []models.AvailabilityRule, weekday int) []models.AvailabilityRule {
	var out []models.AvailabilityRule
	for _, r := range rules {
		if r.DayOfWeek == weekday && r.IsAvailable {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func HasAvailableRule(rules []models.AvailabilityRule, weekday int) bool {
	for _, r := range rules {
		if r.DayOfWeek == weekday && r.IsAvailable {
			return true
		}
	}
	return false
}

// ===============================
// Template validation
// ===============================

func ValidateTemplate(tpl *models.AvailabilityTemplate) error {
	if tpl.DurationMinutes <= 0 {
		return httperr.ErrBusiness("invalid_duration")
	}
	if tpl.BufferMinutes < 0 {
		return httperr.ErrBusiness("invalid_buffer")
	}
	if tpl.MinNoticeMinutes < 0 {
		return httperr.ErrBusiness("invalid_min_notice")
	}
	if tpl.Timezone != "" && !timezone.IsValid(tpl.Timezone) {
		return httperr.ErrBusiness("invalid_timezone")
	}
	return ValidateRules(tpl.Rules)
}

// ValidateRules checks every rule on its own and rejects two available
// rules on the same weekday whose windows overlap.
func ValidateRules(rules []models.AvailabilityRule) error {
	type window struct{ start, end int }
	byDay := map[int][]window{}

	for _, r := range rules {
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			return httperr.ErrBusiness("invalid_day_of_week")
		}

		start, err := ParseClock(r.StartTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_format")
		}
		end, err := ParseClock(r.EndTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_format")
		}
		if start >= end {
			return httperr.ErrBusiness("invalid_time_range")
		}

		if r.IsAvailable {
			byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], window{start, end})
		}
	}

	for _, ws := range byDay {
		sort.Slice(ws, func(i, j int) bool { return ws[i].start < ws[j].start })
		for i := 1; i < len(ws); i++ {
			if ws[i].start < ws[i-1].end {
				return httperr.ErrBusiness("overlapping_rules")
			}
		}
	}

	return nil
}
