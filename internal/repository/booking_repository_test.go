package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/slotwise-api/internal/models"
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "calendar_id", "guest_name", "guest_email", "guest_timezone", "notes",
		"starts_at", "ends_at", "status", "cancel_reason", "meeting_url", "location",
		"external_ref", "created_at", "updated_at",
	})
}

func TestBookingRepositoryCreateIfFreeInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("cal-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	start := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		CalendarID: "cal-1",
		GuestName:  "Ada",
		GuestEmail: "ada@example.com",
		StartsAt:   start,
		EndsAt:     start.Add(30 * time.Minute),
		Status:     models.BookingStatusScheduled,
	}
	require.NoError(t, repo.CreateIfFree(context.Background(), booking))
	assert.NotEmpty(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreateIfFreeRejectsOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("cal-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	start := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		CalendarID: "cal-1",
		GuestName:  "Ada",
		GuestEmail: "ada@example.com",
		StartsAt:   start,
		EndsAt:     start.Add(30 * time.Minute),
		Status:     models.BookingStatusScheduled,
	}
	err := repo.CreateIfFree(context.Background(), booking)
	require.ErrorIs(t, err, ErrBookingOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListActiveSpansExcludesCancelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	rows := sqlmock.NewRows([]string{"start", "end"}).
		AddRow(from.Add(14*time.Hour), from.Add(14*time.Hour+30*time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE calendar_id = $1 AND status <> 'CANCELLED' AND starts_at < $3 AND ends_at > $2")).
		WithArgs("cal-1", from, to).
		WillReturnRows(rows)

	spans, err := repo.ListActiveSpans(context.Background(), "cal-1", from, to)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.True(t, spans[0].End.After(spans[0].Start))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListByCalendarFiltersStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	rows := bookingRows().
		AddRow("bk-1", "cal-1", "Ada", "ada@example.com", nil, nil,
			time.Now(), time.Now().Add(30*time.Minute), "PENDING", nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE calendar_id = $1 AND status = $2")).
		WithArgs("cal-1", "PENDING").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE calendar_id = $1 AND status = $2")).
		WithArgs("cal-1", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	bookings, total, err := repo.ListByCalendar(context.Background(), "cal-1", models.BookingFilter{Status: models.BookingStatusPending})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateStatusGuardsCurrentStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
		WithArgs("SCHEDULED", nil, sqlmock.AnyArg(), "bk-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateStatus(context.Background(), "bk-1", models.BookingStatusPending, models.BookingStatusScheduled, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// A stale transition matches zero rows.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
		WithArgs("SCHEDULED", nil, sqlmock.AnyArg(), "bk-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err = repo.UpdateStatus(context.Background(), "bk-1", models.BookingStatusPending, models.BookingStatusScheduled, nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
