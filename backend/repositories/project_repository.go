package repositories

import (
	"time"

	"project/backend/models"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// CountCompleted возвращает число завершенных проектов пользователя.
func (r *ProjectRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Project{}).
		Where("user_id = ? AND status = ?", userID, "COMPLETED").
		Count(&count).Error
	return count, err
}

// CountActive возвращает число неудаленных проектов пользователя.
func (r *ProjectRepository) CountActive(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Project{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListWithTasks возвращает проекты с подгруженными задачами, завершенными
// в [start, end).
func (r *ProjectRepository) ListWithTasks(userID uint, start, end time.Time) ([]models.Project, error) {
	var projects []models.Project
	err := r.DB.
		Preload("Tasks", "completed_at >= ? AND completed_at < ?", start, end).
		Where("user_id = ?", userID).
		Find(&projects).Error
	return projects, err
}
