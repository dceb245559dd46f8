package controllers

import (
	"errors"
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionController struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Ledger       *services.ActivityLedger
	Achievements *services.AchievementEngine
}

func NewSessionController(db *gorm.DB, cfg *config.Config) *SessionController {
	return &SessionController{
		DB:           db,
		Cfg:          cfg,
		Ledger:       services.NewActivityLedger(db),
		Achievements: newAchievementEngine(db),
	}
}

// GetSessions возвращает сессии пользователя
func (sc *SessionController) GetSessions(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var sessions []models.StudySession
	if err := sc.DB.Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch sessions")
	}

	return utils.Success(c, fiber.StatusOK, sessions)
}

// SaveSession сохраняет завершившуюся сессию таймера: пишет сырую запись,
// обновляет дневной агрегат и запускает проверку достижений
func (sc *SessionController) SaveSession(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type SaveInput struct {
		DurationMinutes int    `json:"durationMinutes"`
		Type            string `json:"type"` // FOCUS, SHORT_BREAK, LONG_BREAK
		Completed       bool   `json:"completed"`
		TaskID          *uint  `json:"taskId"`
	}

	var input SaveInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	now := time.Now()

	// Обновляем дневной агрегат; он же валидирует тип и длительность
	dailyLog, err := sc.Ledger.RecordSession(userID, now, input.Type, input.DurationMinutes, input.Completed)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			return utils.BadRequest(c, "Invalid session type or duration")
		}
		return utils.InternalServerError(c, "Could not update daily log")
	}

	session := models.StudySession{
		UserID:          userID,
		TaskID:          input.TaskID,
		TypeSession:     input.Type,
		DurationMinutes: input.DurationMinutes,
		StartedAt:       now.Add(-time.Duration(input.DurationMinutes) * time.Minute),
		EndedAt:         &now,
		Completed:       input.Completed,
	}

	if err := sc.DB.Create(&session).Error; err != nil {
		return utils.InternalServerError(c, "Could not save session")
	}

	// Фокус по задаче накапливает ее фактическое время
	if input.TaskID != nil && input.Type == models.SessionFocus {
		if err := sc.DB.Model(&models.Task{}).
			Where("id = ? AND user_id = ?", *input.TaskID, userID).
			UpdateColumn("actual_duration_minutes",
				gorm.Expr("actual_duration_minutes + ?", input.DurationMinutes)).Error; err != nil {
			return utils.InternalServerError(c, "Could not update task time")
		}
	}

	sc.Achievements.Evaluate(userID)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"session":  session,
		"dailyLog": dailyLog,
	})
}
