package repository

import "errors"

// ErrBookingOverlap reports that a requested span collides with an existing
// non-cancelled booking, whether caught by the pre-insert check or by the
// database constraint.
var ErrBookingOverlap = errors.New("booking overlaps an existing non-cancelled booking")
