package availability

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-local civil date format used throughout.
const DateLayout = "2006-01-02"

// LocalToUTC resolves a (calendar-local civil date, minute-of-day) pair to the
// absolute UTC instant for that wall-clock time in loc. time.Date interprets
// the wall clock through the zone's rules, so spans straddling a DST
// transition never drift by the nominal offset.
func LocalToUTC(date string, minute int, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse civil date %q: %w", date, err)
	}
	local := time.Date(d.Year(), d.Month(), d.Day(), minute/60, minute%60, 0, 0, loc)
	return local.UTC(), nil
}

// LocalDate is the inverse projection: the civil date an instant falls on in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// LocalClock renders an instant's wall-clock time in loc as HH:MM.
func LocalClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// Weekday returns the day of week (0=Sunday) a civil date falls on.
// Noon anchors the lookup so DST transitions around midnight cannot shift
// the civil day.
func Weekday(date string, loc *time.Location) (int, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return 0, fmt.Errorf("parse civil date %q: %w", date, err)
	}
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	return int(noon.Weekday()), nil
}

// AddDays shifts a civil date by n days in loc, normalising through the
// calendar rather than adding fixed 24h spans.
func AddDays(date string, n int, loc *time.Location) (string, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return "", fmt.Errorf("parse civil date %q: %w", date, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day()+n, 12, 0, 0, 0, loc).Format(DateLayout), nil
}
