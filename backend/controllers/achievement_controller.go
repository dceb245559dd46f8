package controllers

import (
	"project/backend/config"
	"project/backend/models"
	"project/backend/repositories"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AchievementController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAchievementController(db *gorm.DB, cfg *config.Config) *AchievementController {
	return &AchievementController{DB: db, Cfg: cfg}
}

// GetAll возвращает справочник достижений
func (ac *AchievementController) GetAll(c *fiber.Ctx) error {
	var achievements []models.Achievement
	if err := ac.DB.Order("name ASC").Find(&achievements).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch achievements")
	}

	return utils.Success(c, fiber.StatusOK, achievements)
}

// GetMine возвращает выданные пользователю достижения
func (ac *AchievementController) GetMine(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var grants []models.UserAchievement
	if err := ac.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&grants).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch achievements")
	}

	return utils.Success(c, fiber.StatusOK, grants)
}

// newAchievementEngine собирает движок достижений с gorm-реализациями
// коллабораторов
func newAchievementEngine(db *gorm.DB) *services.AchievementEngine {
	return services.NewAchievementEngine(
		db,
		services.NewActivityLedger(db),
		repositories.NewTaskRepository(db),
		repositories.NewProjectRepository(db),
		repositories.NewSessionRepository(db),
		repositories.NewAuditLogger(db),
	)
}
