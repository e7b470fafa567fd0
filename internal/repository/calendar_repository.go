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

// CalendarRepository persists bookable calendar configurations.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

const calendarColumns = `id, tenant_id, name, owner_email, description, duration_minutes, buffer_before_minutes, buffer_after_minutes, timezone, booking_window_days, min_notice_minutes, requires_confirmation, status, created_at, updated_at`

// List returns calendars for a tenant matching filters.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, int, error) {
	where := []string{"tenant_id = $1"}
	args := []interface{}{filter.TenantID}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
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

	query := fmt.Sprintf(`SELECT %s FROM calendars WHERE %s ORDER BY created_at ASC LIMIT %d OFFSET %d`,
		calendarColumns, whereClause, size, offset)
	var calendars []models.Calendar
	if err := r.db.SelectContext(ctx, &calendars, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendars: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM calendars WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendars: %w", err)
	}
	return calendars, total, nil
}

// GetByID fetches a calendar scoped to its tenant.
func (r *CalendarRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Calendar, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendars WHERE id = $1 AND tenant_id = $2`, calendarColumns)
	var calendar models.Calendar
	if err := r.db.GetContext(ctx, &calendar, query, id, tenantID); err != nil {
		return nil, err
	}
	return &calendar, nil
}

// GetPublic fetches a calendar by id alone, for the public booking and
// availability surfaces where no tenant context exists.
func (r *CalendarRepository) GetPublic(ctx context.Context, id string) (*models.Calendar, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendars WHERE id = $1`, calendarColumns)
	var calendar models.Calendar
	if err := r.db.GetContext(ctx, &calendar, query, id); err != nil {
		return nil, err
	}
	return &calendar, nil
}

// Create inserts a calendar record.
func (r *CalendarRepository) Create(ctx context.Context, calendar *models.Calendar) error {
	now := time.Now().UTC()
	if calendar.ID == "" {
		calendar.ID = uuid.NewString()
	}
	if calendar.CreatedAt.IsZero() {
		calendar.CreatedAt = now
	}
	calendar.UpdatedAt = now

	const query = `
INSERT INTO calendars (id, tenant_id, name, owner_email, description, duration_minutes, buffer_before_minutes, buffer_after_minutes, timezone, booking_window_days, min_notice_minutes, requires_confirmation, status, created_at, updated_at)
VALUES (:id, :tenant_id, :name, :owner_email, :description, :duration_minutes, :buffer_before_minutes, :buffer_after_minutes, :timezone, :booking_window_days, :min_notice_minutes, :requires_confirmation, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, calendar); err != nil {
		return fmt.Errorf("create calendar: %w", err)
	}
	return nil
}

// Update modifies a calendar's configuration.
func (r *CalendarRepository) Update(ctx context.Context, calendar *models.Calendar) error {
	calendar.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE calendars SET name = :name, owner_email = :owner_email, description = :description, duration_minutes = :duration_minutes,
buffer_before_minutes = :buffer_before_minutes, buffer_after_minutes = :buffer_after_minutes,
timezone = :timezone, booking_window_days = :booking_window_days, min_notice_minutes = :min_notice_minutes,
requires_confirmation = :requires_confirmation, status = :status, updated_at = :updated_at
WHERE id = :id AND tenant_id = :tenant_id`
	if _, err := r.db.NamedExecContext(ctx, query, calendar); err != nil {
		return fmt.Errorf("update calendar: %w", err)
	}
	return nil
}

// SetStatus flips the lifecycle flag without touching configuration.
func (r *CalendarRepository) SetStatus(ctx context.Context, tenantID, id string, status models.CalendarStatus) error {
	const query = `UPDATE calendars SET status = $1, updated_at = $2 WHERE id = $3 AND tenant_id = $4`
	if _, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id, tenantID); err != nil {
		return fmt.Errorf("set calendar status: %w", err)
	}
	return nil
}
