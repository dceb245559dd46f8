package services

import (
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

var streakToday = time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC)

func dayLog(daysAgo, focusMinutes, tasksCompleted int) models.DailyLog {
	return models.DailyLog{
		Date:              StartOfDay(streakToday).AddDate(0, 0, -daysAgo),
		TotalFocusMinutes: focusMinutes,
		TasksCompleted:    tasksCompleted,
	}
}

func TestCalculateStreakEmptyHistory(t *testing.T) {
	assert.Equal(t, 0, CalculateStreak(nil, streakToday))
}

func TestCalculateStreakTodayOnly(t *testing.T) {
	logs := []models.DailyLog{dayLog(0, 25, 0)}
	assert.Equal(t, 1, CalculateStreak(logs, streakToday))
}

func TestCalculateStreakUnbrokenTenDays(t *testing.T) {
	logs := make([]models.DailyLog, 0, 10)
	for i := 0; i < 10; i++ {
		logs = append(logs, dayLog(i, 0, 1))
	}
	assert.Equal(t, 10, CalculateStreak(logs, streakToday))
}

func TestCalculateStreakSevenDaysOfTasks(t *testing.T) {
	logs := make([]models.DailyLog, 0, 7)
	for i := 0; i < 7; i++ {
		logs = append(logs, dayLog(i, 0, 1))
	}
	assert.Equal(t, 7, CalculateStreak(logs, streakToday))
}

func TestCalculateStreakGapBreaks(t *testing.T) {
	// Сегодня и позавчера есть, вчера нет
	logs := []models.DailyLog{dayLog(0, 25, 0), dayLog(2, 25, 0)}
	assert.Equal(t, 1, CalculateStreak(logs, streakToday))
}

func TestCalculateStreakOldGapIgnored(t *testing.T) {
	logs := []models.DailyLog{
		dayLog(0, 30, 0),
		dayLog(1, 30, 0),
		dayLog(2, 30, 0),
		dayLog(3, 30, 0),
		dayLog(4, 30, 0),
		// разрыв: дни 5-19 отсутствуют
		dayLog(20, 120, 3),
	}
	assert.Equal(t, 5, CalculateStreak(logs, streakToday))
}

func TestCalculateStreakZeroActivityDayBreaks(t *testing.T) {
	// День с записью, но без фокуса и задач серию не продолжает
	logs := []models.DailyLog{dayLog(0, 0, 0), dayLog(1, 60, 1)}
	assert.Equal(t, 0, CalculateStreak(logs, streakToday))
}

func TestCalculateStreakBreakOnlyDayDoesNotCount(t *testing.T) {
	logs := []models.DailyLog{
		{Date: StartOfDay(streakToday), TotalPauseMinutes: 15},
	}
	assert.Equal(t, 0, CalculateStreak(logs, streakToday))
}
