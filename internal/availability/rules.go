package availability

import (
	"sort"

	"github.com/slotwise/slotwise-api/internal/models"
)

// ResolveDay computes the effective open intervals for one calendar-local
// date. Date-specific rules entirely replace weekly rules for that date; a
// date with no available rules resolves to zero openings, which is a
// legitimate closed day rather than an error.
func ResolveDay(rules []models.AvailabilityRule, date string, weekday int) []Interval {
	selected := make([]models.AvailabilityRule, 0, len(rules))
	for _, r := range rules {
		if r.Type == models.RuleTypeDate && r.Date != nil && *r.Date == date {
			selected = append(selected, r)
		}
	}
	if len(selected) == 0 {
		for _, r := range rules {
			if r.Type == models.RuleTypeWeekly && r.Weekday != nil && *r.Weekday == weekday {
				selected = append(selected, r)
			}
		}
	}

	var open, blackout []Interval
	for _, r := range selected {
		iv := Interval{Start: r.StartMinute, End: r.EndMinute}
		if iv.Empty() {
			continue
		}
		if r.IsUnavailable {
			blackout = append(blackout, iv)
		} else {
			open = append(open, iv)
		}
	}
	if len(open) == 0 {
		return nil
	}

	sort.Slice(open, func(i, j int) bool { return open[i].Start < open[j].Start })
	return SubtractMany(open, blackout)
}
