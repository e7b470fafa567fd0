package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/availability"
	"github.com/slotwise/slotwise-api/internal/email"
	"github.com/slotwise/slotwise-api/internal/models"
	"github.com/slotwise/slotwise-api/pkg/config"
	"github.com/slotwise/slotwise-api/pkg/jobs"
)

const (
	jobTypeBookingCreated     = "booking.created"
	jobTypeBookingConfirmed   = "booking.confirmed"
	jobTypeBookingDeclined    = "booking.declined"
	jobTypeBookingCancelled   = "booking.cancelled"
	notificationQueueCapacity = 256
)

type bookingNotification struct {
	Booking  models.Booking
	Calendar models.Calendar
}

// NotificationService emails guests and calendar owners about booking
// lifecycle events. Delivery is fire-and-forget through a background worker
// queue: a failed send never fails the booking operation that triggered it.
type NotificationService struct {
	queue   *jobs.Queue
	sender  email.Sender
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService constructs the service and its worker queue. Call
// Start before enqueueing and Stop on shutdown.
func NewNotificationService(sender email.Sender, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		sender:  sender,
		enabled: cfg.Enabled && sender != nil,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		BufferSize: notificationQueueCapacity,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *NotificationService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains the worker pool.
func (s *NotificationService) Stop() {
	if s.enabled {
		s.queue.Stop()
	}
}

// BookingCreated notifies guest and owner that a reservation was taken.
func (s *NotificationService) BookingCreated(booking *models.Booking, calendar *models.Calendar) {
	s.enqueue(jobTypeBookingCreated, booking, calendar)
}

// BookingConfirmed notifies the guest that a pending booking was accepted.
func (s *NotificationService) BookingConfirmed(booking *models.Booking, calendar *models.Calendar) {
	s.enqueue(jobTypeBookingConfirmed, booking, calendar)
}

// BookingDeclined notifies the guest that a pending booking was declined.
func (s *NotificationService) BookingDeclined(booking *models.Booking, calendar *models.Calendar) {
	s.enqueue(jobTypeBookingDeclined, booking, calendar)
}

// BookingCancelled notifies guest and owner about a cancellation.
func (s *NotificationService) BookingCancelled(booking *models.Booking, calendar *models.Calendar) {
	s.enqueue(jobTypeBookingCancelled, booking, calendar)
}

func (s *NotificationService) enqueue(jobType string, booking *models.Booking, calendar *models.Calendar) {
	if !s.enabled || booking == nil || calendar == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: bookingNotification{Booking: *booking, Calendar: *calendar},
	})
	if err != nil {
		s.logger.Sugar().Warnw("failed to enqueue notification", "type", jobType, "booking_id", booking.ID, "error", err)
	}
}

func (s *NotificationService) handle(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(bookingNotification)
	if !ok {
		s.logger.Sugar().Errorw("unexpected notification payload", "type", job.Type)
		return nil
	}

	booking := payload.Booking
	calendar := payload.Calendar
	when := s.formatWhen(&booking, &calendar)

	var guestSubject, guestBody string
	notifyOwner := false

	switch job.Type {
	case jobTypeBookingCreated:
		notifyOwner = true
		if booking.Status == models.BookingStatusPending {
			guestSubject = fmt.Sprintf("Booking request received: %s", calendar.Name)
			guestBody = fmt.Sprintf("Hi %s,\n\nYour booking request for %s on %s is awaiting confirmation.\n", booking.GuestName, calendar.Name, when)
		} else {
			guestSubject = fmt.Sprintf("Booking confirmed: %s", calendar.Name)
			guestBody = fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s is confirmed.\n", booking.GuestName, calendar.Name, when)
		}
	case jobTypeBookingConfirmed:
		guestSubject = fmt.Sprintf("Booking confirmed: %s", calendar.Name)
		guestBody = fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s has been confirmed.\n", booking.GuestName, calendar.Name, when)
	case jobTypeBookingDeclined:
		guestSubject = fmt.Sprintf("Booking declined: %s", calendar.Name)
		guestBody = fmt.Sprintf("Hi %s,\n\nYour booking request for %s on %s was declined.\n", booking.GuestName, calendar.Name, when)
	case jobTypeBookingCancelled:
		notifyOwner = true
		guestSubject = fmt.Sprintf("Booking cancelled: %s", calendar.Name)
		guestBody = fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s has been cancelled.\n", booking.GuestName, calendar.Name, when)
		if booking.CancelReason != nil && *booking.CancelReason != "" {
			guestBody += fmt.Sprintf("\nReason: %s\n", *booking.CancelReason)
		}
	default:
		return nil
	}

	if err := s.sender.Send(booking.GuestEmail, guestSubject, guestBody); err != nil {
		return fmt.Errorf("send guest notification: %w", err)
	}

	if notifyOwner && calendar.OwnerEmail != "" {
		ownerSubject := fmt.Sprintf("[%s] %s: %s", calendar.Name, job.Type, booking.GuestName)
		ownerBody := fmt.Sprintf("%s (%s) at %s\nStatus: %s\n", booking.GuestName, booking.GuestEmail, when, booking.Status)
		if err := s.sender.Send(calendar.OwnerEmail, ownerSubject, ownerBody); err != nil {
			return fmt.Errorf("send owner notification: %w", err)
		}
	}
	return nil
}

// formatWhen renders the booking time in the calendar's zone, plus the
// guest's own zone when they supplied one and it differs.
func (s *NotificationService) formatWhen(booking *models.Booking, calendar *models.Calendar) string {
	loc, err := time.LoadLocation(calendar.Timezone)
	if err != nil {
		loc = time.UTC
	}
	when := fmt.Sprintf("%s %s–%s (%s)",
		availability.LocalDate(booking.StartsAt, loc),
		availability.LocalClock(booking.StartsAt, loc),
		availability.LocalClock(booking.EndsAt, loc),
		calendar.Timezone,
	)
	if booking.GuestTimezone != nil && *booking.GuestTimezone != "" && *booking.GuestTimezone != calendar.Timezone {
		if guestLoc, err := time.LoadLocation(*booking.GuestTimezone); err == nil {
			when += fmt.Sprintf(" / %s %s–%s (%s)",
				availability.LocalDate(booking.StartsAt, guestLoc),
				availability.LocalClock(booking.StartsAt, guestLoc),
				availability.LocalClock(booking.EndsAt, guestLoc),
				*booking.GuestTimezone,
			)
		}
	}
	return when
}
