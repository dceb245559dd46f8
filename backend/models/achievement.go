package models

import (
	"time"

	"gorm.io/gorm"
)

// Виды порогов для достижений
const (
	ThresholdStreakDays        = "STREAK_DAYS"
	ThresholdTasksCompleted    = "TASKS_COMPLETED"
	ThresholdProjectsCompleted = "PROJECTS_COMPLETED"
	ThresholdFocusHours        = "FOCUS_HOURS"
)

type Achievement struct {
	gorm.Model
	Code          string `gorm:"unique;not null"`
	Name          string
	Description   string
	ThresholdKind string
	Threshold     int
}

type UserAchievement struct {
	gorm.Model
	UserID        uint `gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement"`
	AchievementID uint `gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement"`
	Achievement   Achievement
	EarnedAt      time.Time
}

type ActivityLog struct {
	gorm.Model
	UserID  *uint `gorm:"index"`
	Action  string
	Details string
}
