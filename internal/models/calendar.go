package models

import "time"

// CalendarStatus tracks the lifecycle of a bookable calendar.
type CalendarStatus string

const (
	CalendarStatusActive   CalendarStatus = "ACTIVE"
	CalendarStatusInactive CalendarStatus = "INACTIVE"
)

// Calendar is a tenant's bookable meeting configuration. Calendars are
// soft-disabled via Status rather than deleted while bookings reference them.
type Calendar struct {
	ID                   string         `db:"id" json:"id"`
	TenantID             string         `db:"tenant_id" json:"tenant_id"`
	Name                 string         `db:"name" json:"name"`
	OwnerEmail           string         `db:"owner_email" json:"owner_email"`
	Description          *string        `db:"description" json:"description,omitempty"`
	DurationMinutes      int            `db:"duration_minutes" json:"duration_minutes"`
	BufferBeforeMinutes  int            `db:"buffer_before_minutes" json:"buffer_before_minutes"`
	BufferAfterMinutes   int            `db:"buffer_after_minutes" json:"buffer_after_minutes"`
	Timezone             string         `db:"timezone" json:"timezone"`
	BookingWindowDays    int            `db:"booking_window_days" json:"booking_window_days"`
	MinNoticeMinutes     int            `db:"min_notice_minutes" json:"min_notice_minutes"`
	RequiresConfirmation bool           `db:"requires_confirmation" json:"requires_confirmation"`
	Status               CalendarStatus `db:"status" json:"status"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// Active reports whether the calendar accepts availability queries and bookings.
func (c *Calendar) Active() bool {
	return c != nil && c.Status == CalendarStatusActive
}

// CalendarFilter narrows down calendar listings.
type CalendarFilter struct {
	TenantID string
	Status   CalendarStatus
	Page     int
	PageSize int
}
