package models

import "time"

// Slot is a concrete bookable span in UTC instants.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAvailability pairs a calendar-local date with its bookable slots.
// It is derived at read time and never persisted; days without slots are
// omitted from availability responses entirely.
type DayAvailability struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}
