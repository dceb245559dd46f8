package repositories

import (
	"time"

	"project/backend/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// CountCompleted возвращает накопительное число завершенных задач.
func (r *TaskRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Task{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// CountAll возвращает общее и завершенное число задач пользователя.
func (r *TaskRepository) CountAll(userID uint) (int64, int64, error) {
	var total int64
	if err := r.DB.Model(&models.Task{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	completed, err := r.CountCompleted(userID)
	return total, completed, err
}

// FindCompletedInRange возвращает задачи, завершенные в [start, end),
// пригодные для расчета эффективности: с оценкой и фактическим временем.
func (r *TaskRepository) FindCompletedInRange(userID uint, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.DB.
		Where("user_id = ? AND is_completed = ?", userID, true).
		Where("completed_at >= ? AND completed_at < ?", start, end).
		Where("estimated_duration_minutes IS NOT NULL AND actual_duration_minutes > 0").
		Find(&tasks).Error
	return tasks, err
}
