package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slotwise/slotwise-api/internal/availability"
	"github.com/slotwise/slotwise-api/internal/dto"
	"github.com/slotwise/slotwise-api/internal/models"
	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
)

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, int, error)
	GetByID(ctx context.Context, tenantID, id string) (*models.Calendar, error)
	Create(ctx context.Context, calendar *models.Calendar) error
	Update(ctx context.Context, calendar *models.Calendar) error
	SetStatus(ctx context.Context, tenantID, id string, status models.CalendarStatus) error
}

type ruleRepository interface {
	ListByCalendar(ctx context.Context, calendarID string) ([]models.AvailabilityRule, error)
	ReplaceAll(ctx context.Context, calendarID string, rules []models.AvailabilityRule) error
}

type cacheInvalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// CalendarService manages bookable calendar configurations and their rule
// sets. All configuration validation happens here, synchronously, so invalid
// settings never reach slot generation.
type CalendarService struct {
	repo      calendarRepository
	rules     ruleRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(repo calendarRepository, rules ruleRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, rules: rules, cache: cache, validator: validate, logger: logger}
}

// CreateCalendarRequest describes the create payload.
type CreateCalendarRequest struct {
	TenantID             string  `json:"-"`
	Name                 string  `json:"name" validate:"required"`
	OwnerEmail           string  `json:"owner_email" validate:"required,email"`
	Description          *string `json:"description,omitempty"`
	DurationMinutes      int     `json:"duration_minutes" validate:"required,gt=0"`
	BufferBeforeMinutes  int     `json:"buffer_before_minutes" validate:"gte=0"`
	BufferAfterMinutes   int     `json:"buffer_after_minutes" validate:"gte=0"`
	Timezone             string  `json:"timezone" validate:"required"`
	BookingWindowDays    int     `json:"booking_window_days" validate:"required,gt=0"`
	MinNoticeMinutes     int     `json:"min_notice_minutes" validate:"gte=0"`
	RequiresConfirmation bool    `json:"requires_confirmation"`
}

// UpdateCalendarRequest describes the update payload.
type UpdateCalendarRequest struct {
	Name                 string  `json:"name" validate:"required"`
	OwnerEmail           string  `json:"owner_email" validate:"required,email"`
	Description          *string `json:"description,omitempty"`
	DurationMinutes      int     `json:"duration_minutes" validate:"required,gt=0"`
	BufferBeforeMinutes  int     `json:"buffer_before_minutes" validate:"gte=0"`
	BufferAfterMinutes   int     `json:"buffer_after_minutes" validate:"gte=0"`
	Timezone             string  `json:"timezone" validate:"required"`
	BookingWindowDays    int     `json:"booking_window_days" validate:"required,gt=0"`
	MinNoticeMinutes     int     `json:"min_notice_minutes" validate:"gte=0"`
	RequiresConfirmation bool    `json:"requires_confirmation"`
}

// List returns a tenant's calendars.
func (s *CalendarService) List(ctx context.Context, filter models.CalendarFilter) ([]models.Calendar, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	calendars, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendars")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return calendars, pagination, nil
}

// Get returns a tenant's calendar by id.
func (s *CalendarService) Get(ctx context.Context, tenantID, id string) (*models.Calendar, error) {
	calendar, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get calendar")
	}
	return calendar, nil
}

// Create registers a new calendar after validating its configuration,
// including the IANA timezone, so nothing invalid can surface later at
// slot-generation time.
func (s *CalendarService) Create(ctx context.Context, req CreateCalendarRequest) (*models.Calendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimezone, fmt.Sprintf("unrecognized IANA timezone %q", req.Timezone))
	}

	calendar := &models.Calendar{
		TenantID:             req.TenantID,
		Name:                 req.Name,
		OwnerEmail:           req.OwnerEmail,
		Description:          req.Description,
		DurationMinutes:      req.DurationMinutes,
		BufferBeforeMinutes:  req.BufferBeforeMinutes,
		BufferAfterMinutes:   req.BufferAfterMinutes,
		Timezone:             req.Timezone,
		BookingWindowDays:    req.BookingWindowDays,
		MinNoticeMinutes:     req.MinNoticeMinutes,
		RequiresConfirmation: req.RequiresConfirmation,
		Status:               models.CalendarStatusActive,
	}
	if err := s.repo.Create(ctx, calendar); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendar")
	}
	return calendar, nil
}

// Update modifies a calendar's configuration.
func (s *CalendarService) Update(ctx context.Context, tenantID, id string, req UpdateCalendarRequest) (*models.Calendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimezone, fmt.Sprintf("unrecognized IANA timezone %q", req.Timezone))
	}

	calendar, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	calendar.Name = req.Name
	calendar.OwnerEmail = req.OwnerEmail
	calendar.Description = req.Description
	calendar.DurationMinutes = req.DurationMinutes
	calendar.BufferBeforeMinutes = req.BufferBeforeMinutes
	calendar.BufferAfterMinutes = req.BufferAfterMinutes
	calendar.Timezone = req.Timezone
	calendar.BookingWindowDays = req.BookingWindowDays
	calendar.MinNoticeMinutes = req.MinNoticeMinutes
	calendar.RequiresConfirmation = req.RequiresConfirmation
	if err := s.repo.Update(ctx, calendar); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar")
	}
	s.invalidate(ctx, calendar.ID)
	return calendar, nil
}

// Deactivate soft-disables a calendar. Bookings keep referencing it; it just
// stops serving availability and accepting reservations.
func (s *CalendarService) Deactivate(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, tenantID, id, models.CalendarStatusInactive); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate calendar")
	}
	s.invalidate(ctx, id)
	return nil
}

// ListRules returns a calendar's full rule set.
func (s *CalendarService) ListRules(ctx context.Context, tenantID, calendarID string) ([]models.AvailabilityRule, error) {
	if _, err := s.Get(ctx, tenantID, calendarID); err != nil {
		return nil, err
	}
	rules, err := s.rules.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rules")
	}
	return rules, nil
}

// ReplaceRules validates and atomically swaps a calendar's whole rule set.
func (s *CalendarService) ReplaceRules(ctx context.Context, tenantID, calendarID string, req dto.ReplaceRulesRequest) ([]models.AvailabilityRule, error) {
	if _, err := s.Get(ctx, tenantID, calendarID); err != nil {
		return nil, err
	}

	rules := make([]models.AvailabilityRule, 0, len(req.Rules))
	for i, input := range req.Rules {
		rule, err := buildRule(input)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rule %d: %v", i, err))
		}
		rules = append(rules, rule)
	}

	if err := s.rules.ReplaceAll(ctx, calendarID, rules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace rules")
	}
	s.invalidate(ctx, calendarID)
	return rules, nil
}

// buildRule enforces the rule-shape invariants: a WEEKLY rule carries a
// weekday and never a date, a DATE rule the reverse, and minute spans are
// rejected rather than clamped when out of range.
func buildRule(input dto.RuleInput) (models.AvailabilityRule, error) {
	var rule models.AvailabilityRule

	switch models.RuleType(input.Type) {
	case models.RuleTypeWeekly:
		if input.Weekday == nil {
			return rule, fmt.Errorf("weekly rule requires a weekday")
		}
		if input.Date != nil {
			return rule, fmt.Errorf("weekly rule must not carry a date")
		}
		if *input.Weekday < 0 || *input.Weekday > 6 {
			return rule, fmt.Errorf("weekday %d out of range 0-6", *input.Weekday)
		}
	case models.RuleTypeDate:
		if input.Date == nil {
			return rule, fmt.Errorf("date rule requires a date")
		}
		if input.Weekday != nil {
			return rule, fmt.Errorf("date rule must not carry a weekday")
		}
		if _, err := time.Parse(availability.DateLayout, *input.Date); err != nil {
			return rule, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", *input.Date)
		}
	default:
		return rule, fmt.Errorf("unknown rule type %q", input.Type)
	}

	if input.StartMinute < 0 || input.StartMinute > models.MinutesPerDay-1 {
		return rule, fmt.Errorf("start_minute %d out of range", input.StartMinute)
	}
	if input.EndMinute < 1 || input.EndMinute > models.MinutesPerDay {
		return rule, fmt.Errorf("end_minute %d out of range", input.EndMinute)
	}
	if input.EndMinute <= input.StartMinute {
		return rule, fmt.Errorf("end_minute must be after start_minute")
	}

	rule = models.AvailabilityRule{
		Type:          models.RuleType(input.Type),
		Weekday:       input.Weekday,
		Date:          input.Date,
		StartMinute:   input.StartMinute,
		EndMinute:     input.EndMinute,
		IsUnavailable: input.IsUnavailable,
	}
	return rule, nil
}

func (s *CalendarService) invalidate(ctx context.Context, calendarID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, availabilityCachePrefix(calendarID)); err != nil {
		s.logger.Sugar().Warnw("availability cache invalidation failed", "calendar_id", calendarID, "error", err)
	}
}
