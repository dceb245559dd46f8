package services

import (
	"errors"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityLedger владеет дневными агрегатами активности (DailyLog).
// Все записи выражены как атомарные upsert-инкременты одной строки,
// поэтому конкурентные вызовы для одного дня не теряют обновлений.
type ActivityLedger struct {
	DB *gorm.DB
}

func NewActivityLedger(db *gorm.DB) *ActivityLedger {
	return &ActivityLedger{DB: db}
}

var ledgerConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
}

// RecordSession фиксирует завершившуюся сессию таймера в агрегате дня.
// FOCUS увеличивает фокус-минуты (и счетчик завершенных сессий, если таймер
// дошел до нуля), перерывы — минуты пауз.
func (l *ActivityLedger) RecordSession(userID uint, date time.Time, typeSession string, durationMinutes int, completed bool) (*models.DailyLog, error) {
	if durationMinutes < 0 {
		return nil, ErrInvalidArgument
	}

	day := StartOfDay(date)
	row := models.DailyLog{UserID: userID, Date: day}
	assignments := map[string]interface{}{}

	switch typeSession {
	case models.SessionFocus:
		row.TotalFocusMinutes = durationMinutes
		assignments["total_focus_minutes"] = gorm.Expr("total_focus_minutes + ?", durationMinutes)
		if completed {
			row.CompletedSessions = 1
			assignments["completed_sessions"] = gorm.Expr("completed_sessions + 1")
		}
	case models.SessionShortBreak, models.SessionLongBreak:
		row.TotalPauseMinutes = durationMinutes
		assignments["total_pause_minutes"] = gorm.Expr("total_pause_minutes + ?", durationMinutes)
	default:
		return nil, ErrInvalidArgument
	}

	conflict := ledgerConflict
	conflict.DoUpdates = clause.Assignments(assignments)

	if err := l.DB.Clauses(conflict).Create(&row).Error; err != nil {
		return nil, err
	}

	return l.find(userID, day)
}

// RecordTaskCompletion увеличивает счетчик завершенных задач за день.
func (l *ActivityLedger) RecordTaskCompletion(userID uint, date time.Time) (*models.DailyLog, error) {
	day := StartOfDay(date)
	row := models.DailyLog{UserID: userID, Date: day, TasksCompleted: 1}

	conflict := ledgerConflict
	conflict.DoUpdates = clause.Assignments(map[string]interface{}{
		"tasks_completed": gorm.Expr("tasks_completed + 1"),
	})

	if err := l.DB.Clauses(conflict).Create(&row).Error; err != nil {
		return nil, err
	}

	return l.find(userID, day)
}

// Range возвращает агрегаты за полуинтервал [start, end) по возрастанию
// даты. Пропущенные дни не заполняются — их трактует вызывающая сторона.
func (l *ActivityLedger) Range(userID uint, start, end time.Time) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := l.DB.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

// HistoryDesc возвращает всю историю пользователя, самый свежий день первым.
func (l *ActivityLedger) HistoryDesc(userID uint) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := l.DB.
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&logs).Error
	return logs, err
}

func (l *ActivityLedger) find(userID uint, day time.Time) (*models.DailyLog, error) {
	var row models.DailyLog
	if err := l.DB.Where("user_id = ? AND date = ?", userID, day).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
