package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/dto"
	"github.com/slotwise/slotwise-api/internal/models"
	"github.com/slotwise/slotwise-api/internal/repository"
	"github.com/slotwise/slotwise-api/pkg/config"
	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
)

// Postgres error codes that signal the database-level overlap guard fired.
const (
	pqExclusionViolation = "23P01"
	pqUniqueViolation    = "23505"
)

type bookingRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*models.Booking, error)
	ListByCalendar(ctx context.Context, calendarID string, filter models.BookingFilter) ([]models.Booking, int, error)
	CreateIfFree(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason *string) (int64, error)
}

type bookingCalendarRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*models.Calendar, error)
	GetPublic(ctx context.Context, id string) (*models.Calendar, error)
}

type bookingNotifier interface {
	BookingCreated(booking *models.Booking, calendar *models.Calendar)
	BookingConfirmed(booking *models.Booking, calendar *models.Calendar)
	BookingDeclined(booking *models.Booking, calendar *models.Calendar)
	BookingCancelled(booking *models.Booking, calendar *models.Calendar)
}

// BookingService owns the reservation lifecycle. Slot contention is settled
// inside the repository transaction and ultimately by the database's overlap
// constraint; this layer maps the outcome onto the API error contract.
type BookingService struct {
	repo      bookingRepository
	calendars bookingCalendarRepository
	cache     cacheInvalidator
	notifier  bookingNotifier
	metrics   *MetricsService
	cfg       config.BookingConfig
	validator *validator.Validate
	logger    *zap.Logger

	now func() time.Time
}

// NewBookingService constructs the service.
func NewBookingService(repo bookingRepository, calendars bookingCalendarRepository, cache cacheInvalidator, notifier bookingNotifier, metrics *MetricsService, cfg config.BookingConfig, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		repo:      repo,
		calendars: calendars,
		cache:     cache,
		notifier:  notifier,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Create reserves a slot. Two guests racing for the same span both pass the
// availability read; only one insert survives the overlap guard, the other
// gets ErrSlotUnavailable and should refetch availability.
func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	calendar, err := s.calendars.GetPublic(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	if !calendar.Active() {
		return nil, appErrors.ErrCalendarClosed
	}

	if req.GuestTimezone != nil && *req.GuestTimezone != "" {
		if _, err := time.LoadLocation(*req.GuestTimezone); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidTimezone, fmt.Sprintf("unrecognized IANA timezone %q", *req.GuestTimezone))
		}
	}

	start := req.Start.UTC()
	now := s.now().UTC()
	notBefore := now.Add(time.Duration(calendar.MinNoticeMinutes) * time.Minute)
	if start.Before(notBefore) {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "slot start violates the calendar's minimum notice")
	}
	maxDays := min(calendar.BookingWindowDays, s.cfg.MaxWindowDays)
	if start.After(now.Add(time.Duration(maxDays) * 24 * time.Hour)) {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "slot start is beyond the booking window")
	}

	status := models.BookingStatusScheduled
	if calendar.RequiresConfirmation {
		status = models.BookingStatusPending
	}

	booking := &models.Booking{
		CalendarID:    calendar.ID,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestTimezone: req.GuestTimezone,
		Notes:         req.Notes,
		StartsAt:      start,
		EndsAt:        start.Add(time.Duration(calendar.DurationMinutes) * time.Minute),
		Status:        status,
	}

	if err := s.repo.CreateIfFree(ctx, booking); err != nil {
		if s.isOverlap(err) {
			if s.metrics != nil {
				s.metrics.BookingConflict()
			}
			return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	if s.metrics != nil {
		s.metrics.BookingCreated()
	}
	s.invalidate(ctx, calendar.ID)
	if s.notifier != nil {
		s.notifier.BookingCreated(booking, calendar)
	}
	return booking, nil
}

// Get returns a tenant's booking by id.
func (s *BookingService) Get(ctx context.Context, tenantID, id string) (*models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get booking")
	}
	return booking, nil
}

// List returns a calendar's bookings for admin views.
func (s *BookingService) List(ctx context.Context, tenantID string, req dto.BookingListRequest) ([]models.Booking, *models.Pagination, error) {
	if _, err := s.calendars.GetByID(ctx, tenantID, req.CalendarID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "calendar not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}

	filter := models.BookingFilter{
		Status:   models.BookingStatus(req.Status),
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && filter.PageSize > s.cfg.MaxPageSize {
		filter.PageSize = s.cfg.MaxPageSize
	}

	bookings, total, err := s.repo.ListByCalendar(ctx, req.CalendarID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return bookings, pagination, nil
}

// Accept confirms a pending booking.
func (s *BookingService) Accept(ctx context.Context, tenantID, id string) (*models.Booking, error) {
	return s.transition(ctx, tenantID, id, models.BookingStatusScheduled, nil)
}

// Decline rejects a pending booking, freeing its span.
func (s *BookingService) Decline(ctx context.Context, tenantID, id string, reason *string) (*models.Booking, error) {
	return s.transition(ctx, tenantID, id, models.BookingStatusCancelled, reason)
}

// Cancel cancels a pending or scheduled booking, freeing its span.
func (s *BookingService) Cancel(ctx context.Context, tenantID, id string, reason *string) (*models.Booking, error) {
	return s.transition(ctx, tenantID, id, models.BookingStatusCancelled, reason)
}

// Complete marks a scheduled booking as held.
func (s *BookingService) Complete(ctx context.Context, tenantID, id string) (*models.Booking, error) {
	return s.transition(ctx, tenantID, id, models.BookingStatusCompleted, nil)
}

// transition applies a guarded status change. The UPDATE is conditioned on
// the status observed here, so a concurrent transition makes it affect zero
// rows and surface as a conflict instead of clobbering the winner.
func (s *BookingService) transition(ctx context.Context, tenantID, id string, to models.BookingStatus, reason *string) (*models.Booking, error) {
	booking, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	from := booking.Status
	if !from.CanTransition(to) {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot transition booking from %s to %s", from, to))
	}

	affected, err := s.repo.UpdateStatus(ctx, id, from, to, reason)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking status")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently, retry")
	}

	booking.Status = to
	if reason != nil {
		booking.CancelReason = reason
	}

	s.invalidate(ctx, booking.CalendarID)
	if s.notifier != nil {
		calendar, calErr := s.calendars.GetByID(ctx, tenantID, booking.CalendarID)
		if calErr != nil {
			s.logger.Sugar().Warnw("skipping notification, calendar lookup failed", "booking_id", id, "error", calErr)
		} else {
			switch {
			case to == models.BookingStatusScheduled:
				s.notifier.BookingConfirmed(booking, calendar)
			case to == models.BookingStatusCancelled && from == models.BookingStatusPending:
				s.notifier.BookingDeclined(booking, calendar)
			case to == models.BookingStatusCancelled:
				s.notifier.BookingCancelled(booking, calendar)
			}
		}
	}
	return booking, nil
}

// isOverlap recognizes both the transaction pre-check and the Postgres
// exclusion constraint rejecting a taken span.
func (s *BookingService) isOverlap(err error) bool {
	if errors.Is(err, repository.ErrBookingOverlap) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqExclusionViolation || string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func (s *BookingService) invalidate(ctx context.Context, calendarID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, availabilityCachePrefix(calendarID)); err != nil {
		s.logger.Sugar().Warnw("availability cache invalidation failed", "calendar_id", calendarID, "error", err)
	}
}
