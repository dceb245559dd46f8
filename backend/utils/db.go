package utils

import (
	"fmt"

	"project/backend/config"
	"project/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение с Postgres, мигрирует схему и сеет
// справочник достижений.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Tag{},
		&models.FocusSettings{},
		&models.StudySession{},
		&models.DailyLog{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityLog{},
	); err != nil {
		return nil, err
	}

	if err := SeedAchievements(db); err != nil {
		return nil, err
	}

	return db, nil
}

// SeedAchievements создает таблицу правил достижений. Существующие записи
// не трогаем: пороги меняются только новым деплоем, выдачи — никогда.
func SeedAchievements(db *gorm.DB) error {
	definitions := []models.Achievement{
		{Code: "STREAK_3_DAYS", Name: "Getting Started", Description: "Kept a 3-day activity streak", ThresholdKind: models.ThresholdStreakDays, Threshold: 3},
		{Code: "STREAK_7_DAYS", Name: "Weekly Marathoner", Description: "Kept a 7-day activity streak", ThresholdKind: models.ThresholdStreakDays, Threshold: 7},
		{Code: "STREAK_30_DAYS", Name: "Monthly Marathoner", Description: "Kept a 30-day activity streak", ThresholdKind: models.ThresholdStreakDays, Threshold: 30},
		{Code: "FIRST_TASK_COMPLETED", Name: "First Step", Description: "Completed the first task", ThresholdKind: models.ThresholdTasksCompleted, Threshold: 1},
		{Code: "TASKS_10_COMPLETED", Name: "Productive", Description: "Completed 10 tasks", ThresholdKind: models.ThresholdTasksCompleted, Threshold: 10},
		{Code: "TASKS_100_COMPLETED", Name: "Productivity Machine", Description: "Completed 100 tasks", ThresholdKind: models.ThresholdTasksCompleted, Threshold: 100},
		{Code: "FIRST_PROJECT_COMPLETED", Name: "Achiever", Description: "Completed the first project", ThresholdKind: models.ThresholdProjectsCompleted, Threshold: 1},
		{Code: "FOCUS_10_HOURS", Name: "Focused", Description: "Accumulated 10 hours of focus", ThresholdKind: models.ThresholdFocusHours, Threshold: 10},
		{Code: "FOCUS_100_HOURS", Name: "Master of Concentration", Description: "Accumulated 100 hours of focus", ThresholdKind: models.ThresholdFocusHours, Threshold: 100},
	}

	for _, definition := range definitions {
		var existing models.Achievement
		err := db.Where("code = ?", definition.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&definition).Error; err != nil {
			return err
		}
	}

	return nil
}
