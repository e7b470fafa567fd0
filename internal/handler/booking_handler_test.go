package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/models"
	"github.com/slotwise/slotwise-api/internal/repository"
	"github.com/slotwise/slotwise-api/internal/service"
	"github.com/slotwise/slotwise-api/pkg/config"
	"github.com/slotwise/slotwise-api/pkg/response"
)

type calendarRepoStub struct {
	calendar *models.Calendar
}

func (s *calendarRepoStub) List(context.Context, models.CalendarFilter) ([]models.Calendar, int, error) {
	return []models.Calendar{*s.calendar}, 1, nil
}

func (s *calendarRepoStub) GetByID(_ context.Context, tenantID, id string) (*models.Calendar, error) {
	if s.calendar == nil || s.calendar.ID != id || s.calendar.TenantID != tenantID {
		return nil, sql.ErrNoRows
	}
	clone := *s.calendar
	return &clone, nil
}

func (s *calendarRepoStub) GetPublic(_ context.Context, id string) (*models.Calendar, error) {
	if s.calendar == nil || s.calendar.ID != id {
		return nil, sql.ErrNoRows
	}
	clone := *s.calendar
	return &clone, nil
}

func (s *calendarRepoStub) Create(_ context.Context, c *models.Calendar) error { return nil }
func (s *calendarRepoStub) Update(_ context.Context, c *models.Calendar) error { return nil }
func (s *calendarRepoStub) SetStatus(context.Context, string, string, models.CalendarStatus) error {
	return nil
}

type bookingRepoStub struct {
	createErr error
	created   *models.Booking
}

func (s *bookingRepoStub) GetByID(context.Context, string, string) (*models.Booking, error) {
	return nil, sql.ErrNoRows
}

func (s *bookingRepoStub) ListByCalendar(context.Context, string, models.BookingFilter) ([]models.Booking, int, error) {
	return nil, 0, nil
}

func (s *bookingRepoStub) CreateIfFree(_ context.Context, booking *models.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	booking.ID = "bk-new"
	s.created = booking
	return nil
}

func (s *bookingRepoStub) UpdateStatus(context.Context, string, models.BookingStatus, models.BookingStatus, *string) (int64, error) {
	return 1, nil
}

func handlerCalendar() *models.Calendar {
	return &models.Calendar{
		ID:                "cal-1",
		TenantID:          "tenant-1",
		Name:              "Intro Call",
		OwnerEmail:        "owner@example.com",
		DurationMinutes:   30,
		Timezone:          "UTC",
		BookingWindowDays: 365,
		Status:            models.CalendarStatusActive,
	}
}

func newBookingHandler(bookings *bookingRepoStub, calendars *calendarRepoStub) *BookingHandler {
	svc := service.NewBookingService(bookings, calendars, nil, nil, nil, config.BookingConfig{MaxWindowDays: 365, DefaultPageSize: 20}, nil, zap.NewNop())
	return NewBookingHandler(svc)
}

func postBooking(t *testing.T, handler *BookingHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/calendars/cal-1/bookings", bytes.NewReader([]byte(payload)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "cal-1"}}
	handler.Create(c)
	return w
}

func TestBookingHandlerCreateReturnsCreated(t *testing.T) {
	repo := &bookingRepoStub{}
	handler := newBookingHandler(repo, &calendarRepoStub{calendar: handlerCalendar()})

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute)
	payload, _ := json.Marshal(gin.H{
		"guest_name":  "Dana",
		"guest_email": "dana@example.com",
		"start":       start.Format(time.RFC3339),
	})

	w := postBooking(t, handler, string(payload))
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
	body, _ := json.Marshal(envelope.Data)
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))
	assert.Equal(t, "bk-new", booking.ID)
	assert.Equal(t, models.BookingStatusScheduled, booking.Status)
	require.NotNil(t, repo.created)
}

func TestBookingHandlerCreateConflict(t *testing.T) {
	repo := &bookingRepoStub{createErr: repository.ErrBookingOverlap}
	handler := newBookingHandler(repo, &calendarRepoStub{calendar: handlerCalendar()})

	start := time.Now().UTC().Add(48 * time.Hour)
	payload, _ := json.Marshal(gin.H{
		"guest_name":  "Dana",
		"guest_email": "dana@example.com",
		"start":       start.Format(time.RFC3339),
	})

	w := postBooking(t, handler, string(payload))
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "SLOT_UNAVAILABLE", envelope.Error.Code)
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	handler := newBookingHandler(&bookingRepoStub{}, &calendarRepoStub{calendar: handlerCalendar()})
	w := postBooking(t, handler, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
