package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/availability"
	"github.com/slotwise/slotwise-api/internal/models"
	"github.com/slotwise/slotwise-api/pkg/config"
	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
)

type publicCalendarRepository interface {
	GetPublic(ctx context.Context, id string) (*models.Calendar, error)
}

type bookingSpanRepository interface {
	ListActiveSpans(ctx context.Context, calendarID string, from, to time.Time) ([]models.Slot, error)
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AvailabilityService computes bookable slot windows for public consumption.
// Results are cached per calendar and query shape; every write that can alter
// a window (rule swap, booking, cancellation) drops the calendar's prefix.
type AvailabilityService struct {
	calendars publicCalendarRepository
	rules     ruleRepository
	bookings  bookingSpanRepository
	cache     availabilityCache
	metrics   *MetricsService
	cfg       config.BookingConfig
	logger    *zap.Logger

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(calendars publicCalendarRepository, rules ruleRepository, bookings bookingSpanRepository, cache availabilityCache, metrics *MetricsService, cfg config.BookingConfig, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		calendars: calendars,
		rules:     rules,
		bookings:  bookings,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// availabilityCachePrefix is shared with the calendar and booking services so
// their writes can invalidate every cached window of a calendar.
func availabilityCachePrefix(calendarID string) string {
	return "availability:" + calendarID + ":"
}

func availabilityCacheKey(calendarID, fromDate string, days int) string {
	return fmt.Sprintf("%s%s:%d", availabilityCachePrefix(calendarID), fromDate, days)
}

// GetWindow computes the multi-day availability window for a calendar. The
// fromDate defaults to today in the calendar's zone; the window length comes
// from toDate (inclusive) when given, else days, else the calendar's own
// booking window, always capped by the service-wide maximum.
func (s *AvailabilityService) GetWindow(ctx context.Context, calendarID, fromDate, toDate string, days int) ([]models.DayAvailability, error) {
	calendar, err := s.calendars.GetPublic(ctx, calendarID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	if !calendar.Active() {
		return nil, appErrors.ErrCalendarClosed
	}

	loc, err := time.LoadLocation(calendar.Timezone)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimezone, fmt.Sprintf("calendar has unrecognized timezone %q", calendar.Timezone))
	}

	now := s.now().UTC()
	if fromDate == "" {
		fromDate = availability.LocalDate(now, loc)
	} else if _, err := time.Parse(availability.DateLayout, fromDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid from date %q, expected YYYY-MM-DD", fromDate))
	}
	if toDate != "" {
		to, err := time.Parse(availability.DateLayout, toDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid to date %q, expected YYYY-MM-DD", toDate))
		}
		from, _ := time.Parse(availability.DateLayout, fromDate)
		days = int(to.Sub(from).Hours()/24) + 1
		if days < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "to date precedes from date")
		}
	}
	if days <= 0 {
		days = calendar.BookingWindowDays
	}
	days = min(days, calendar.BookingWindowDays, s.cfg.MaxWindowDays)

	key := availabilityCacheKey(calendarID, fromDate, days)
	if s.cacheEnabled() {
		var cached []models.DayAvailability
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.countCache(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("availability cache read failed", "key", key, "error", err)
		}
		s.countCache(false)
	}

	window, err := s.compute(ctx, calendar, loc, now, fromDate, days)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, window, s.cfg.AvailabilityTTL); err != nil {
			s.logger.Sugar().Warnw("availability cache write failed", "key", key, "error", err)
		}
	}
	return window, nil
}

func (s *AvailabilityService) compute(ctx context.Context, calendar *models.Calendar, loc *time.Location, now time.Time, fromDate string, days int) ([]models.DayAvailability, error) {
	rules, err := s.rules.ListByCalendar(ctx, calendar.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rules")
	}

	// Fetch busy spans across the whole window in one query, padded a day on
	// each side so bookings straddling local midnight are not missed.
	windowStart, err := availability.LocalToUTC(fromDate, 0, loc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to anchor window")
	}
	from := windowStart.Add(-24 * time.Hour)
	to := windowStart.Add(time.Duration(days+1) * 24 * time.Hour)

	busy, err := s.bookings.ListActiveSpans(ctx, calendar.ID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	window, err := availability.BuildWindow(availability.WindowParams{
		Calendar: calendar,
		Rules:    rules,
		Busy:     busy,
		Now:      now,
		FromDate: fromDate,
		Days:     days,
	}, loc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute availability")
	}
	if s.metrics != nil {
		s.metrics.AvailabilityComputed()
	}
	if window == nil {
		window = []models.DayAvailability{}
	}
	return window, nil
}

func (s *AvailabilityService) cacheEnabled() bool {
	return s.cfg.CacheAvailability && s.cache != nil
}

func (s *AvailabilityService) countCache(hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(hit)
	}
}
