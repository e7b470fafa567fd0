package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/slotwise/slotwise-api/internal/models"
)

// RuleRepository persists availability rules. Rule sets are only ever
// replaced wholesale per calendar, never patched row by row.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository constructs a rule repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListByCalendar returns every rule attached to a calendar.
func (r *RuleRepository) ListByCalendar(ctx context.Context, calendarID string) ([]models.AvailabilityRule, error) {
	const query = `SELECT id, calendar_id, rule_type, weekday, rule_date, start_minute, end_minute, is_unavailable, created_at
FROM availability_rules WHERE calendar_id = $1 ORDER BY rule_type ASC, weekday ASC NULLS LAST, rule_date ASC NULLS LAST, start_minute ASC`
	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, calendarID); err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	return rules, nil
}

// ReplaceAll swaps a calendar's complete rule set inside one transaction.
// A failure at any point rolls the whole replacement back, so a crash
// mid-sequence can never leave the calendar with a half-written rule set.
func (r *RuleRepository) ReplaceAll(ctx context.Context, calendarID string, rules []models.AvailabilityRule) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace rules: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM availability_rules WHERE calendar_id = $1`, calendarID); err != nil {
		return fmt.Errorf("delete availability rules: %w", err)
	}

	now := time.Now().UTC()
	const insert = `
INSERT INTO availability_rules (id, calendar_id, rule_type, weekday, rule_date, start_minute, end_minute, is_unavailable, created_at)
VALUES (:id, :calendar_id, :rule_type, :weekday, :rule_date, :start_minute, :end_minute, :is_unavailable, :created_at)`
	for i := range rules {
		rule := &rules[i]
		rule.CalendarID = calendarID
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		if rule.CreatedAt.IsZero() {
			rule.CreatedAt = now
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, insert, rule); err != nil {
			return fmt.Errorf("insert availability rule: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rules: %w", err)
	}
	return nil
}
