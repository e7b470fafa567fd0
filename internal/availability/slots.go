package availability

import (
	"time"

	"github.com/slotwise/slotwise-api/internal/models"
)

// SlotConfig carries the calendar settings the slot walk depends on.
type SlotConfig struct {
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
}

// GenerateSlots walks the resolved open intervals of one calendar-local date
// and emits bookable slots in chronological order. The cursor starts at
// interval start plus the leading buffer and always advances by
// duration+buffers, so buffers apply uniformly whether a candidate is
// published or rejected. Candidates before notBefore or colliding with a busy
// span are skipped without disturbing the cadence.
func GenerateSlots(cfg SlotConfig, date string, open []Interval, busy []models.Slot, notBefore time.Time, loc *time.Location) ([]models.Slot, error) {
	if cfg.DurationMinutes <= 0 {
		return nil, nil
	}

	step := cfg.DurationMinutes + cfg.BufferBeforeMinutes + cfg.BufferAfterMinutes
	duration := time.Duration(cfg.DurationMinutes) * time.Minute

	var slots []models.Slot
	for _, iv := range open {
		lastStart := iv.End - cfg.BufferAfterMinutes - cfg.DurationMinutes
		for cursor := iv.Start + cfg.BufferBeforeMinutes; cursor <= lastStart; cursor += step {
			start, err := LocalToUTC(date, cursor, loc)
			if err != nil {
				return nil, err
			}
			end := start.Add(duration)

			if start.Before(notBefore) {
				continue
			}
			if overlapsAny(start, end, busy) {
				continue
			}
			slots = append(slots, models.Slot{Start: start, End: end})
		}
	}
	return slots, nil
}

// overlapsAny applies the open-interval overlap test against every busy span:
// [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
func overlapsAny(start, end time.Time, busy []models.Slot) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
