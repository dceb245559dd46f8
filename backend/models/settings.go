package models

import "gorm.io/gorm"

// FocusSettings — персональные настройки таймера. Одна запись на
// пользователя, создается лениво с дефолтами классического помодоро.
type FocusSettings struct {
	gorm.Model
	UserID                    uint `gorm:"not null;uniqueIndex"`
	FocusDurationMinutes      int  `gorm:"default:25"`
	ShortBreakDurationMinutes int  `gorm:"default:5"`
	LongBreakDurationMinutes  int  `gorm:"default:15"`
	CyclesBeforeLongBreak     int  `gorm:"default:4"`
}
