package controllers

import (
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskController struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Ledger       *services.ActivityLedger
	Achievements *services.AchievementEngine
}

func NewTaskController(db *gorm.DB, cfg *config.Config) *TaskController {
	return &TaskController{
		DB:           db,
		Cfg:          cfg,
		Ledger:       services.NewActivityLedger(db),
		Achievements: newAchievementEngine(db),
	}
}

// GetTasks возвращает задачи пользователя, опционально по проекту
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := tc.DB.Where("user_id = ?", userID)
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch tasks")
	}

	return utils.Success(c, fiber.StatusOK, tasks)
}

// CreateTask создает новую задачу
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type CreateInput struct {
		Title                    string `json:"title"`
		Description              string `json:"description"`
		ProjectID                *uint  `json:"projectId"`
		EstimatedDurationMinutes *int   `json:"estimatedDurationMinutes"`
	}

	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.EstimatedDurationMinutes != nil && *input.EstimatedDurationMinutes < 0 {
		return utils.BadRequest(c, "Estimated duration cannot be negative")
	}

	task := models.Task{
		UserID:                   userID,
		ProjectID:                input.ProjectID,
		Title:                    input.Title,
		Description:              input.Description,
		EstimatedDurationMinutes: input.EstimatedDurationMinutes,
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not create task")
	}

	return utils.Created(c, task)
}

// UpdateTask обновляет поля задачи
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	task, err := tc.findTask(c, userID)
	if err != nil {
		return utils.NotFound(c, "Task not found")
	}

	type UpdateInput struct {
		Title                    *string `json:"title"`
		Description              *string `json:"description"`
		ProjectID                *uint   `json:"projectId"`
		EstimatedDurationMinutes *int    `json:"estimatedDurationMinutes"`
	}

	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ProjectID != nil {
		task.ProjectID = input.ProjectID
	}
	if input.EstimatedDurationMinutes != nil {
		if *input.EstimatedDurationMinutes < 0 {
			return utils.BadRequest(c, "Estimated duration cannot be negative")
		}
		task.EstimatedDurationMinutes = input.EstimatedDurationMinutes
	}

	if err := tc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not update task")
	}

	return utils.Success(c, fiber.StatusOK, task)
}

// CompleteTask помечает задачу завершенной, фиксирует событие в леджере
// и запускает проверку достижений
func (tc *TaskController) CompleteTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	task, err := tc.findTask(c, userID)
	if err != nil {
		return utils.NotFound(c, "Task not found")
	}

	if task.IsCompleted {
		return utils.Success(c, fiber.StatusOK, task)
	}

	type CompleteInput struct {
		ActualDurationMinutes *int `json:"actualDurationMinutes"`
	}

	var input CompleteInput
	_ = c.BodyParser(&input)

	now := time.Now()
	task.IsCompleted = true
	task.CompletedAt = &now
	if input.ActualDurationMinutes != nil {
		if *input.ActualDurationMinutes < 0 {
			return utils.BadRequest(c, "Actual duration cannot be negative")
		}
		task.ActualDurationMinutes = *input.ActualDurationMinutes
	}

	if err := tc.DB.Save(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not complete task")
	}

	// Фиксируем завершение в дневном агрегате
	if _, err := tc.Ledger.RecordTaskCompletion(userID, now); err != nil {
		return utils.InternalServerError(c, "Could not update daily log")
	}

	tc.Achievements.Evaluate(userID)

	return utils.Success(c, fiber.StatusOK, task)
}

// DeleteTask мягко удаляет задачу
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	task, err := tc.findTask(c, userID)
	if err != nil {
		return utils.NotFound(c, "Task not found")
	}

	if err := tc.DB.Delete(task).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete task")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Task deleted"})
}

func (tc *TaskController) findTask(c *fiber.Ctx, userID uint) (*models.Task, error) {
	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}
