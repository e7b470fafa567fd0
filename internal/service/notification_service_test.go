package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/models"
	"github.com/slotwise/slotwise-api/pkg/config"
	"github.com/slotwise/slotwise-api/pkg/jobs"
)

type capturingSender struct {
	sent []capturedMail
}

type capturedMail struct {
	to      string
	subject string
	body    string
}

func (s *capturingSender) Send(to, subject, body string) error {
	s.sent = append(s.sent, capturedMail{to: to, subject: subject, body: body})
	return nil
}

func notificationFixture() (*capturingSender, *NotificationService) {
	sender := &capturingSender{}
	svc := NewNotificationService(sender, config.NotificationsConfig{
		Enabled:           true,
		WorkerConcurrency: 1,
	}, zap.NewNop())
	return sender, svc
}

func notificationBooking() (*models.Booking, *models.Calendar) {
	calendar := serviceCalendar()
	calendar.Timezone = "America/New_York"
	booking := &models.Booking{
		ID:         "bk-1",
		CalendarID: calendar.ID,
		GuestName:  "Dana",
		GuestEmail: "dana@example.com",
		StartsAt:   time.Date(2026, 3, 2, 14, 10, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 3, 2, 14, 40, 0, 0, time.UTC),
		Status:     models.BookingStatusScheduled,
	}
	return booking, calendar
}

func TestNotificationServiceCreatedEmailsGuestAndOwner(t *testing.T) {
	sender, svc := notificationFixture()
	booking, calendar := notificationBooking()

	err := svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeBookingCreated,
		Payload: bookingNotification{Booking: *booking, Calendar: *calendar},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "dana@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "confirmed")
	assert.Equal(t, "owner@example.com", sender.sent[1].to)
}

func TestNotificationServicePendingCreatedMentionsConfirmation(t *testing.T) {
	sender, svc := notificationFixture()
	booking, calendar := notificationBooking()
	booking.Status = models.BookingStatusPending

	err := svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeBookingCreated,
		Payload: bookingNotification{Booking: *booking, Calendar: *calendar},
	})
	require.NoError(t, err)
	require.NotEmpty(t, sender.sent)
	assert.Contains(t, sender.sent[0].body, "awaiting confirmation")
}

func TestNotificationServiceDeclinedEmailsGuestOnly(t *testing.T) {
	sender, svc := notificationFixture()
	booking, calendar := notificationBooking()

	err := svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeBookingDeclined,
		Payload: bookingNotification{Booking: *booking, Calendar: *calendar},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "dana@example.com", sender.sent[0].to)
}

func TestNotificationServiceCancelledIncludesReason(t *testing.T) {
	sender, svc := notificationFixture()
	booking, calendar := notificationBooking()
	reason := "venue closed"
	booking.CancelReason = &reason

	err := svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeBookingCancelled,
		Payload: bookingNotification{Booking: *booking, Calendar: *calendar},
	})
	require.NoError(t, err)
	require.NotEmpty(t, sender.sent)
	assert.Contains(t, sender.sent[0].body, "venue closed")
}

func TestNotificationServiceRendersBothTimezones(t *testing.T) {
	sender, svc := notificationFixture()
	booking, calendar := notificationBooking()
	booking.GuestTimezone = strPtr("Europe/Berlin")

	// 14:10 UTC is 09:10 in New York and 15:10 in Berlin.
	err := svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeBookingConfirmed,
		Payload: bookingNotification{Booking: *booking, Calendar: *calendar},
	})
	require.NoError(t, err)
	require.NotEmpty(t, sender.sent)
	assert.Contains(t, sender.sent[0].body, "09:10")
	assert.Contains(t, sender.sent[0].body, "America/New_York")
	assert.Contains(t, sender.sent[0].body, "15:10")
	assert.Contains(t, sender.sent[0].body, "Europe/Berlin")
}

func TestNotificationServiceDisabledIsNoop(t *testing.T) {
	sender := &capturingSender{}
	svc := NewNotificationService(sender, config.NotificationsConfig{Enabled: false}, zap.NewNop())
	booking, calendar := notificationBooking()

	svc.Start(context.Background())
	svc.BookingCreated(booking, calendar)
	svc.Stop()
	assert.Empty(t, sender.sent)
}
