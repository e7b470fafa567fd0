package availability

import (
	"time"

	"github.com/slotwise/slotwise-api/internal/models"
)

// WindowParams describes one multi-day availability computation.
type WindowParams struct {
	Calendar *models.Calendar
	Rules    []models.AvailabilityRule
	// Busy holds the spans of non-cancelled bookings overlapping the window.
	Busy []models.Slot
	Now  time.Time
	// FromDate is the first calendar-local civil date, inclusive.
	FromDate string
	Days     int
}

// BuildWindow iterates the calendar's booking window day by day, resolving
// rules and generating slots per local date. The weekday is derived in the
// calendar's zone, never the server's, since UTC and calendar-local dates can
// disagree near midnight. Days that resolve closed or fully booked are
// omitted from the result; absence means "no availability that day".
func BuildWindow(p WindowParams, loc *time.Location) ([]models.DayAvailability, error) {
	cfg := SlotConfig{
		DurationMinutes:     p.Calendar.DurationMinutes,
		BufferBeforeMinutes: p.Calendar.BufferBeforeMinutes,
		BufferAfterMinutes:  p.Calendar.BufferAfterMinutes,
	}
	notBefore := p.Now.Add(time.Duration(p.Calendar.MinNoticeMinutes) * time.Minute)

	var days []models.DayAvailability
	for i := 0; i < p.Days; i++ {
		date, err := AddDays(p.FromDate, i, loc)
		if err != nil {
			return nil, err
		}
		weekday, err := Weekday(date, loc)
		if err != nil {
			return nil, err
		}

		open := ResolveDay(p.Rules, date, weekday)
		if len(open) == 0 {
			continue
		}

		slots, err := GenerateSlots(cfg, date, open, p.Busy, notBefore, loc)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}
		days = append(days, models.DayAvailability{Date: date, Slots: slots})
	}
	return days, nil
}
