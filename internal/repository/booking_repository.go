package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/slotwise/slotwise-api/internal/models"
)

// BookingRepository persists bookings and performs the race-safe insert.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, calendar_id, guest_name, guest_email, guest_timezone, notes, starts_at, ends_at, status, cancel_reason, meeting_url, location, external_ref, created_at, updated_at`

// GetByID fetches a booking scoped to the caller's tenant through its calendar.
func (r *BookingRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Booking, error) {
	const query = `SELECT b.id, b.calendar_id, b.guest_name, b.guest_email, b.guest_timezone, b.notes, b.starts_at, b.ends_at, b.status, b.cancel_reason, b.meeting_url, b.location, b.external_ref, b.created_at, b.updated_at
FROM bookings b JOIN calendars c ON c.id = b.calendar_id
WHERE b.id = $1 AND c.tenant_id = $2`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id, tenantID); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByCalendar returns bookings on a calendar, newest span first.
func (r *BookingRepository) ListByCalendar(ctx context.Context, calendarID string, filter models.BookingFilter) ([]models.Booking, int, error) {
	where := []string{"calendar_id = $1"}
	args := []interface{}{calendarID}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("ends_at > $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("starts_at < $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s ORDER BY starts_at DESC LIMIT %d OFFSET %d`,
		bookingColumns, whereClause, size, offset)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}
	return bookings, total, nil
}

// ListActiveSpans returns the spans of non-cancelled bookings overlapping
// [from, to), the only booking state availability computations consume.
func (r *BookingRepository) ListActiveSpans(ctx context.Context, calendarID string, from, to time.Time) ([]models.Slot, error) {
	const query = `SELECT starts_at AS start, ends_at AS "end" FROM bookings
WHERE calendar_id = $1 AND status <> 'CANCELLED' AND starts_at < $3 AND ends_at > $2
ORDER BY starts_at ASC`
	var spans []models.Slot
	if err := r.db.SelectContext(ctx, &spans, query, calendarID, from, to); err != nil {
		return nil, fmt.Errorf("list active booking spans: %w", err)
	}
	return spans, nil
}

// CreateIfFree re-checks the overlap condition against current non-cancelled
// bookings and inserts inside one transaction. The exclusion constraint
// bookings_no_overlap is the final arbiter when two inserts race past the
// pre-check; the resulting pq error surfaces to the caller for mapping.
func (r *BookingRepository) CreateIfFree(ctx context.Context, booking *models.Booking) (err error) {
	now := time.Now().UTC()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var conflict bool
	const overlapQuery = `SELECT EXISTS (
SELECT 1 FROM bookings WHERE calendar_id = $1 AND status <> 'CANCELLED' AND starts_at < $3 AND ends_at > $2)`
	if err = tx.GetContext(ctx, &conflict, overlapQuery, booking.CalendarID, booking.StartsAt, booking.EndsAt); err != nil {
		return fmt.Errorf("check booking overlap: %w", err)
	}
	if conflict {
		err = ErrBookingOverlap
		return err
	}

	const insert = `
INSERT INTO bookings (id, calendar_id, guest_name, guest_email, guest_timezone, notes, starts_at, ends_at, status, cancel_reason, meeting_url, location, external_ref, created_at, updated_at)
VALUES (:id, :calendar_id, :guest_name, :guest_email, :guest_timezone, :notes, :starts_at, :ends_at, :status, :cancel_reason, :meeting_url, :location, :external_ref, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, insert, booking); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create booking: %w", err)
	}
	return nil
}

// UpdateStatus transitions a booking, guarding on the expected current status
// so concurrent admin actions cannot double-apply a transition.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason *string) (int64, error) {
	const query = `UPDATE bookings SET status = $1, cancel_reason = COALESCE($2, cancel_reason), updated_at = $3
WHERE id = $4 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, to, reason, time.Now().UTC(), id, from)
	if err != nil {
		return 0, fmt.Errorf("update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update booking status rows: %w", err)
	}
	return affected, nil
}
