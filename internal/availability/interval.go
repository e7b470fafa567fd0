package availability

import "sort"

// Interval is a half-open [Start, End) span measured in minutes of a
// calendar-local day.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the interval covers no time.
func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

// Intersect returns the overlapping sub-interval of a and b, if any.
func Intersect(a, b Interval) (Interval, bool) {
	start := max(a.Start, b.Start)
	end := min(a.End, b.End)
	if start >= end {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// SubtractOne removes blocker from iv, returning the surviving pieces.
// No overlap returns iv unchanged; otherwise up to two non-empty remainders.
func SubtractOne(iv, blocker Interval) []Interval {
	if _, ok := Intersect(iv, blocker); !ok {
		return []Interval{iv}
	}

	out := make([]Interval, 0, 2)
	if before := (Interval{Start: iv.Start, End: blocker.Start}); !before.Empty() {
		out = append(out, before)
	}
	if after := (Interval{Start: blocker.End, End: iv.End}); !after.Empty() {
		out = append(out, after)
	}
	return out
}

// SubtractMany folds SubtractOne over every blocker against every surviving
// interval. Results are sorted and non-overlapping; zero-length pieces are
// dropped.
func SubtractMany(intervals, blockers []Interval) []Interval {
	remaining := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Empty() {
			remaining = append(remaining, iv)
		}
	}

	for _, blocker := range blockers {
		if blocker.Empty() {
			continue
		}
		next := make([]Interval, 0, len(remaining))
		for _, iv := range remaining {
			next = append(next, SubtractOne(iv, blocker)...)
		}
		remaining = next
	}

	sort.Slice(remaining, func(i, j int) bool { return remaining[i].Start < remaining[j].Start })
	return remaining
}
