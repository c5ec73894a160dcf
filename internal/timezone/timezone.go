package timezone

import "time"

const DefaultTimezone = "UTC"

const DateLayout = "2006-01-02"

// Clock returns the current instant. Use cases take one so tests can pin
// "now".
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// ParseDate reads a YYYY-MM-DD civil date as midnight in tz.
func ParseDate(date, tz string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, Location(tz))
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
