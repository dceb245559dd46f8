package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog — агрегат активности пользователя за один календарный день.
// Ровно одна запись на пару (user_id, date); счетчики только растут.
type DailyLog struct {
	gorm.Model
	UserID            uint      `gorm:"not null;uniqueIndex:idx_daily_logs_user_date"`
	Date              time.Time `gorm:"not null;uniqueIndex:idx_daily_logs_user_date"`
	TotalFocusMinutes int       `gorm:"default:0"`
	TotalPauseMinutes int       `gorm:"default:0"`
	CompletedSessions int       `gorm:"default:0"`
	TasksCompleted    int       `gorm:"default:0"`
}
