package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model
	UserID                   uint   `gorm:"index;not null"`
	ProjectID                *uint  `gorm:"index"`
	Title                    string `gorm:"not null"`
	Description              string
	IsCompleted              bool `gorm:"default:false"`
	CompletedAt              *time.Time
	EstimatedDurationMinutes *int
	ActualDurationMinutes    int `gorm:"default:0"`
}
