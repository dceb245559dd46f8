package controllers

import (
	"project/backend/config"
	"project/backend/repositories"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportController struct {
	Cfg    *config.Config
	Engine *services.ReportEngine
}

func NewReportController(db *gorm.DB, cfg *config.Config) *ReportController {
	engine := services.NewReportEngine(
		services.NewActivityLedger(db),
		repositories.NewSessionRepository(db),
		repositories.NewTaskRepository(db),
		repositories.NewProjectRepository(db),
	)
	return &ReportController{Cfg: cfg, Engine: engine}
}

// GetOverview возвращает базовый отчет за период (по умолчанию месяц)
func (rc *ReportController) GetOverview(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	period, err := services.ParsePeriod(c.Query("period", string(services.PeriodMonth)))
	if err != nil {
		return utils.BadRequest(c, "Invalid period. Use DAY, WEEK, MONTH or YEAR")
	}

	report, err := rc.Engine.GetOverview(userID, period)
	if err != nil {
		return utils.InternalServerError(c, "Failed to build overview report")
	}

	return utils.Success(c, fiber.StatusOK, report)
}

// GetAdvanced возвращает расширенный отчет за последние 90 дней
func (rc *ReportController) GetAdvanced(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	report, err := rc.Engine.GetAdvanced(userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to build advanced report")
	}

	return utils.Success(c, fiber.StatusOK, report)
}

// GetInsights возвращает отчет с рекомендациями (по умолчанию за неделю);
// премиум-гейт стоит в middleware
func (rc *ReportController) GetInsights(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	period, err := services.ParsePeriod(c.Query("period", string(services.PeriodWeek)))
	if err != nil {
		return utils.BadRequest(c, "Invalid period. Use DAY, WEEK, MONTH or YEAR")
	}

	report, err := rc.Engine.GetInsights(userID, period)
	if err != nil {
		return utils.InternalServerError(c, "Failed to build insights report")
	}

	return utils.Success(c, fiber.StatusOK, report)
}
