package models

import (
	"time"

	"gorm.io/gorm"
)

// Типы сессий таймера
const (
	SessionFocus      = "FOCUS"
	SessionShortBreak = "SHORT_BREAK"
	SessionLongBreak  = "LONG_BREAK"
)

type StudySession struct {
	gorm.Model
	UserID          uint  `gorm:"index;not null"`
	TaskID          *uint `gorm:"index"`
	TypeSession     string
	DurationMinutes int
	StartedAt       time.Time
	EndedAt         *time.Time
	Completed       bool `gorm:"default:false"` // true, если таймер дошел до нуля
}
