package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/dto"
	"github.com/slotwise/slotwise-api/internal/models"
	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
)

func TestExportServiceRendersCSV(t *testing.T) {
	repo, _, _, bookings := bookingFixture()
	repo.bookings["bk-1"] = &models.Booking{
		ID:         "bk-1",
		CalendarID: "cal-1",
		GuestName:  "Dana",
		GuestEmail: "dana@example.com",
		StartsAt:   time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 3, 2, 9, 40, 0, 0, time.UTC),
		Status:     models.BookingStatusScheduled,
	}
	svc := NewExportService(bookings, zap.NewNop())

	result, err := svc.ExportBookings(context.Background(), "tenant-1", dto.BookingListRequest{CalendarID: "cal-1"}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	records, err := csv.NewReader(strings.NewReader(string(result.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Booking ID", records[0][0])
	assert.Equal(t, "bk-1", records[1][0])
	assert.Equal(t, "2026-03-02T09:10:00Z", records[1][3])
}

func TestExportServiceRendersPDF(t *testing.T) {
	repo, _, _, bookings := bookingFixture()
	repo.bookings["bk-1"] = &models.Booking{ID: "bk-1", CalendarID: "cal-1", GuestName: "Dana", Status: models.BookingStatusScheduled}
	svc := NewExportService(bookings, zap.NewNop())

	result, err := svc.ExportBookings(context.Background(), "tenant-1", dto.BookingListRequest{CalendarID: "cal-1"}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, _, _, bookings := bookingFixture()
	svc := NewExportService(bookings, zap.NewNop())

	_, err := svc.ExportBookings(context.Background(), "tenant-1", dto.BookingListRequest{CalendarID: "cal-1"}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
