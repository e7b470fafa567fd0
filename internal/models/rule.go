package models

import "time"

// RuleType distinguishes recurring weekly rules from one-off date rules.
type RuleType string

const (
	RuleTypeWeekly RuleType = "WEEKLY"
	RuleTypeDate   RuleType = "DATE"
)

// MinutesPerDay bounds minute-of-day rule spans.
const MinutesPerDay = 24 * 60

// AvailabilityRule states open or blacked-out time on a calendar. A WEEKLY
// rule carries Weekday and never Date; a DATE rule carries Date (calendar-local
// YYYY-MM-DD) and never Weekday. StartMinute/EndMinute span minutes of the
// local day, half-open, with EndMinute > StartMinute.
type AvailabilityRule struct {
	ID            string    `db:"id" json:"id"`
	CalendarID    string    `db:"calendar_id" json:"calendar_id"`
	Type          RuleType  `db:"rule_type" json:"rule_type"`
	Weekday       *int      `db:"weekday" json:"weekday,omitempty"`
	Date          *string   `db:"rule_date" json:"date,omitempty"`
	StartMinute   int       `db:"start_minute" json:"start_minute"`
	EndMinute     int       `db:"end_minute" json:"end_minute"`
	IsUnavailable bool      `db:"is_unavailable" json:"is_unavailable"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
