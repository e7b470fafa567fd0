package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/slotwise-api/internal/models"
)

func TestRuleRepositoryListByCalendar(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "calendar_id", "rule_type", "weekday", "rule_date", "start_minute", "end_minute", "is_unavailable", "created_at"}).
		AddRow("rule-1", "cal-1", "WEEKLY", 1, nil, 540, 1020, false, time.Now()).
		AddRow("rule-2", "cal-1", "DATE", nil, "2026-03-09", 0, 1440, true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM availability_rules WHERE calendar_id = $1")).
		WithArgs("cal-1").
		WillReturnRows(rows)

	rules, err := repo.ListByCalendar(context.Background(), "cal-1")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, models.RuleTypeWeekly, rules[0].Type)
	require.NotNil(t, rules[1].Date)
	assert.Equal(t, "2026-03-09", *rules[1].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryReplaceAllDeleteThenInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_rules WHERE calendar_id = $1")).
		WithArgs("cal-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	weekday := 1
	date := "2026-03-09"
	rules := []models.AvailabilityRule{
		{Type: models.RuleTypeWeekly, Weekday: &weekday, StartMinute: 540, EndMinute: 1020},
		{Type: models.RuleTypeDate, Date: &date, StartMinute: 0, EndMinute: 1440, IsUnavailable: true},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), "cal-1", rules))
	assert.Equal(t, "cal-1", rules[0].CalendarID)
	assert.NotEmpty(t, rules[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryReplaceAllRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_rules WHERE calendar_id = $1")).
		WithArgs("cal-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	weekday := 2
	rules := []models.AvailabilityRule{
		{Type: models.RuleTypeWeekly, Weekday: &weekday, StartMinute: 540, EndMinute: 600},
	}
	err := repo.ReplaceAll(context.Background(), "cal-1", rules)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryReplaceAllEmptySetClearsRules(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_rules WHERE calendar_id = $1")).
		WithArgs("cal-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceAll(context.Background(), "cal-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
