package services

import (
	"errors"
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeCounter struct {
	n   int64
	err error
}

func (f *fakeCounter) CountCompleted(userID uint) (int64, error) {
	return f.n, f.err
}

type fakeFocus struct {
	minutes int64
	err     error
}

func (f *fakeFocus) TotalFocusMinutes(userID uint) (int64, error) {
	return f.minutes, f.err
}

type fakeHistory struct {
	logs []models.DailyLog
	err  error
}

func (f *fakeHistory) HistoryDesc(userID uint) ([]models.DailyLog, error) {
	return f.logs, f.err
}

type fakeAudit struct {
	events []string
}

func (f *fakeAudit) Record(userID uint, action, details string) {
	f.events = append(f.events, action+": "+details)
}

var engineNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func seedDefinitions(t *testing.T, db *gorm.DB) {
	t.Helper()

	definitions := []models.Achievement{
		{Code: "STREAK_3_DAYS", Name: "Getting Started", ThresholdKind: models.ThresholdStreakDays, Threshold: 3},
		{Code: "STREAK_7_DAYS", Name: "Weekly Marathoner", ThresholdKind: models.ThresholdStreakDays, Threshold: 7},
		{Code: "STREAK_30_DAYS", Name: "Monthly Marathoner", ThresholdKind: models.ThresholdStreakDays, Threshold: 30},
		{Code: "FIRST_TASK_COMPLETED", Name: "First Step", ThresholdKind: models.ThresholdTasksCompleted, Threshold: 1},
		{Code: "TASKS_10_COMPLETED", Name: "Productive", ThresholdKind: models.ThresholdTasksCompleted, Threshold: 10},
		{Code: "TASKS_100_COMPLETED", Name: "Productivity Machine", ThresholdKind: models.ThresholdTasksCompleted, Threshold: 100},
		{Code: "FIRST_PROJECT_COMPLETED", Name: "Achiever", ThresholdKind: models.ThresholdProjectsCompleted, Threshold: 1},
		{Code: "FOCUS_10_HOURS", Name: "Focused", ThresholdKind: models.ThresholdFocusHours, Threshold: 10},
		{Code: "FOCUS_100_HOURS", Name: "Master of Concentration", ThresholdKind: models.ThresholdFocusHours, Threshold: 100},
	}

	for _, definition := range definitions {
		if err := db.Create(&definition).Error; err != nil {
			t.Fatalf("failed to seed achievement: %v", err)
		}
	}
}

func newTestEngine(db *gorm.DB) (*AchievementEngine, *fakeCounter, *fakeCounter, *fakeFocus, *fakeHistory, *fakeAudit) {
	tasks := &fakeCounter{}
	projects := &fakeCounter{}
	focus := &fakeFocus{}
	history := &fakeHistory{}
	audit := &fakeAudit{}

	engine := NewAchievementEngine(db, history, tasks, projects, focus, audit)
	engine.Now = func() time.Time { return engineNow }

	return engine, tasks, projects, focus, history, audit
}

func earnedCodes(t *testing.T, db *gorm.DB, userID uint) map[string]bool {
	t.Helper()

	var grants []models.UserAchievement
	if err := db.Preload("Achievement").Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		t.Fatalf("failed to load grants: %v", err)
	}

	codes := map[string]bool{}
	for _, grant := range grants {
		codes[grant.Achievement.Code] = true
	}
	return codes
}

func TestEvaluateGrantsTaskThresholds(t *testing.T) {
	db := newTestDB(t)
	seedDefinitions(t, db)
	engine, tasks, _, _, _, audit := newTestEngine(db)
	tasks.n = 10

	engine.Evaluate(1)

	codes := earnedCodes(t, db, 1)
	assert.True(t, codes["FIRST_TASK_COMPLETED"])
	assert.True(t, codes["TASKS_10_COMPLETED"])
	assert.False(t, codes["TASKS_100_COMPLETED"])
	assert.Len(t, audit.events, 2)
}

func TestEvaluateIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedDefinitions(t, db)
	engine, tasks, _, _, _, audit := newTestEngine(db)
	tasks.n = 1

	engine.Evaluate(1)
	engine.Evaluate(1)

	var count int64
	db.Model(&models.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
	// Ровно одно событие журнала на код, не два
	assert.Len(t, audit.events, 1)
}

func TestEvaluateStreakGrants(t *testing.T) {
	db := newTestDB(t)
	seedDefinitions(t, db)
	engine, _, _, _, history, _ := newTestEngine(db)

	for i := 0; i < 7; i++ {
		history.logs = append(history.logs, models.DailyLog{
			Date:           StartOfDay(engineNow).AddDate(0, 0, -i),
			TasksCompleted: 1,
		})
	}

	engine.Evaluate(1)

	codes := earnedCodes(t, db, 1)
	assert.True(t, codes["STREAK_3_DAYS"])
	assert.True(t, codes["STREAK_7_DAYS"])
	assert.False(t, codes["STREAK_30_DAYS"])
}

func TestEvaluateFocusHours(t *testing.T) {
	db := newTestDB(t)
	seedDefinitions(t, db)
	engine, _, _, focus, _, _ := newTestEngine(db)
	focus.minutes = 600 // ровно 10 часов

	engine.Evaluate(1)

	codes := earnedCodes(t, db, 1)
	assert.True(t, codes["FOCUS_10_HOURS"])
	assert.False(t, codes["FOCUS_100_HOURS"])
}

func TestEvaluateFailOpenPerMetric(t *testing.T) {
	db := newTestDB(t)
	seedDefinitions(t, db)
	engine, tasks, projects, focus, _, _ := newTestEngine(db)

	// Счетчик задач недоступен, остальные метрики считаются
	tasks.err = errors.New("tasks unavailable")
	projects.n = 1
	focus.minutes = 6000

	engine.Evaluate(1)

	codes := earnedCodes(t, db, 1)
	assert.False(t, codes["FIRST_TASK_COMPLETED"])
	assert.True(t, codes["FIRST_PROJECT_COMPLETED"])
	assert.True(t, codes["FOCUS_100_HOURS"])
}

func TestGrantDuplicateIsNoop(t *testing.T) {
	db := newTestDB(t)
	seedDefinitions(t, db)
	engine, tasks, _, _, _, audit := newTestEngine(db)
	tasks.n = 1

	// Выдача уже существует — например, записана конкурентным вызовом
	var def models.Achievement
	assert.NoError(t, db.Where("code = ?", "FIRST_TASK_COMPLETED").First(&def).Error)
	assert.NoError(t, db.Create(&models.UserAchievement{
		UserID:        1,
		AchievementID: def.ID,
		EarnedAt:      engineNow,
	}).Error)

	engine.Evaluate(1)

	var count int64
	db.Model(&models.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Empty(t, audit.events)
}
