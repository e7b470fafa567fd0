package dto

import "time"

// CreateBookingRequest is the public booking payload. The slot end is derived
// from the calendar's meeting duration, never supplied by the client.
type CreateBookingRequest struct {
	CalendarID    string    `json:"-"`
	GuestName     string    `json:"guest_name" validate:"required"`
	GuestEmail    string    `json:"guest_email" validate:"required,email"`
	GuestTimezone *string   `json:"guest_timezone,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Start         time.Time `json:"start" validate:"required"`
}

// TransitionBookingRequest carries the optional free-text reason attached to
// decline and cancel actions. The reason is surfaced to the guest.
type TransitionBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// BookingListRequest filters a calendar's bookings for admin views.
type BookingListRequest struct {
	CalendarID string
	Status     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
