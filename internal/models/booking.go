package models

import "time"

// BookingStatus models the booking lifecycle.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusScheduled BookingStatus = "SCHEDULED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// CanTransition reports whether a status change is legal:
// PENDING -> SCHEDULED|CANCELLED, SCHEDULED -> CANCELLED|COMPLETED.
// CANCELLED and COMPLETED are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusScheduled || to == BookingStatusCancelled
	case BookingStatusScheduled:
		return to == BookingStatusCancelled || to == BookingStatusCompleted
	default:
		return false
	}
}

// Booking reserves one time span on one calendar. StartsAt/EndsAt are UTC
// instants; cancelled bookings are excluded from every overlap check.
type Booking struct {
	ID            string        `db:"id" json:"id"`
	CalendarID    string        `db:"calendar_id" json:"calendar_id"`
	GuestName     string        `db:"guest_name" json:"guest_name"`
	GuestEmail    string        `db:"guest_email" json:"guest_email"`
	GuestTimezone *string       `db:"guest_timezone" json:"guest_timezone,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	StartsAt      time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt        time.Time     `db:"ends_at" json:"ends_at"`
	Status        BookingStatus `db:"status" json:"status"`
	CancelReason  *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
	MeetingURL    *string       `db:"meeting_url" json:"meeting_url,omitempty"`
	Location      *string       `db:"location" json:"location,omitempty"`
	ExternalRef   *string       `db:"external_ref" json:"external_ref,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingFilter narrows down booking listings for a calendar.
type BookingFilter struct {
	Status   BookingStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
