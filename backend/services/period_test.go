package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("WEEK")
	assert.NoError(t, err)
	assert.Equal(t, PeriodWeek, period)

	_, err = ParsePeriod("FORTNIGHT")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDateRangeDay(t *testing.T) {
	now := time.Date(2025, 9, 1, 17, 45, 0, 0, time.UTC)
	start, end := DateRange(PeriodDay, now)

	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), end)
}

func TestDateRangeWeekStartsMonday(t *testing.T) {
	// 4 сентября 2025 — четверг
	now := time.Date(2025, 9, 4, 12, 0, 0, 0, time.UTC)
	start, end := DateRange(PeriodWeek, now)

	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), end)
}

func TestDateRangeWeekOnSunday(t *testing.T) {
	// Воскресенье относится к неделе, начавшейся в прошлый понедельник
	now := time.Date(2025, 9, 7, 8, 0, 0, 0, time.UTC)
	start, _ := DateRange(PeriodWeek, now)

	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestDateRangeMonth(t *testing.T) {
	now := time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)
	start, end := DateRange(PeriodMonth, now)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestDateRangeYear(t *testing.T) {
	now := time.Date(2025, 6, 20, 23, 0, 0, 0, time.UTC)
	start, end := DateRange(PeriodYear, now)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
