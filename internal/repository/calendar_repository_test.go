package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/slotwise-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func calendarRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "owner_email", "description", "duration_minutes", "buffer_before_minutes",
		"buffer_after_minutes", "timezone", "booking_window_days", "min_notice_minutes",
		"requires_confirmation", "status", "created_at", "updated_at",
	})
}

func TestCalendarRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	rows := calendarRows().
		AddRow("cal-1", "tenant-1", "Intro call", "owner@example.com", nil, 30, 10, 10, "America/New_York", 14, 60, false, "ACTIVE", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendars WHERE tenant_id = $1 AND status = $2")).
		WithArgs("tenant-1", "ACTIVE").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM calendars WHERE tenant_id = $1 AND status = $2")).
		WithArgs("tenant-1", "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	calendars, total, err := repo.List(context.Background(), models.CalendarFilter{
		TenantID: "tenant-1",
		Status:   models.CalendarStatusActive,
	})
	require.NoError(t, err)
	assert.Len(t, calendars, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "America/New_York", calendars[0].Timezone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryGetByIDScopesTenant(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	rows := calendarRows().
		AddRow("cal-1", "tenant-1", "Intro call", "owner@example.com", nil, 30, 0, 0, "UTC", 14, 0, true, "ACTIVE", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendars WHERE id = $1 AND tenant_id = $2")).
		WithArgs("cal-1", "tenant-1").
		WillReturnRows(rows)

	calendar, err := repo.GetByID(context.Background(), "tenant-1", "cal-1")
	require.NoError(t, err)
	assert.True(t, calendar.RequiresConfirmation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calendars")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	calendar := &models.Calendar{
		TenantID:          "tenant-1",
		Name:              "Intro call",
		DurationMinutes:   30,
		Timezone:          "UTC",
		BookingWindowDays: 14,
		Status:            models.CalendarStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), calendar))
	assert.NotEmpty(t, calendar.ID)
	assert.False(t, calendar.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositorySetStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendars SET status = $1")).
		WithArgs("INACTIVE", sqlmock.AnyArg(), "cal-1", "tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetStatus(context.Background(), "tenant-1", "cal-1", models.CalendarStatusInactive))
	assert.NoError(t, mock.ExpectationsWereMet())
}
