package controllers

import (
	"errors"

	"project/backend/config"
	"project/backend/models"
	"project/backend/repositories"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Audit *repositories.AuditLogger
}

func NewSettingsController(db *gorm.DB, cfg *config.Config) *SettingsController {
	return &SettingsController{
		DB:    db,
		Cfg:   cfg,
		Audit: repositories.NewAuditLogger(db),
	}
}

// GetSettings возвращает настройки таймера, лениво создавая дефолтные
func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	settings, err := sc.loadOrCreate(userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch settings")
	}

	return utils.Success(c, fiber.StatusOK, settings)
}

// UpdateSettings обновляет переданные поля настроек таймера
func (sc *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type UpdateInput struct {
		FocusDurationMinutes      *int `json:"focusDurationMinutes"`
		ShortBreakDurationMinutes *int `json:"shortBreakDurationMinutes"`
		LongBreakDurationMinutes  *int `json:"longBreakDurationMinutes"`
		CyclesBeforeLongBreak     *int `json:"cyclesBeforeLongBreak"`
	}

	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	for _, value := range []*int{
		input.FocusDurationMinutes,
		input.ShortBreakDurationMinutes,
		input.LongBreakDurationMinutes,
		input.CyclesBeforeLongBreak,
	} {
		if value != nil && *value < 1 {
			return utils.BadRequest(c, "Settings values must be at least 1")
		}
	}

	settings, err := sc.loadOrCreate(userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch settings")
	}

	if input.FocusDurationMinutes != nil {
		settings.FocusDurationMinutes = *input.FocusDurationMinutes
	}
	if input.ShortBreakDurationMinutes != nil {
		settings.ShortBreakDurationMinutes = *input.ShortBreakDurationMinutes
	}
	if input.LongBreakDurationMinutes != nil {
		settings.LongBreakDurationMinutes = *input.LongBreakDurationMinutes
	}
	if input.CyclesBeforeLongBreak != nil {
		settings.CyclesBeforeLongBreak = *input.CyclesBeforeLongBreak
	}

	if err := sc.DB.Save(settings).Error; err != nil {
		return utils.InternalServerError(c, "Could not update settings")
	}

	sc.Audit.Record(userID, "SETTINGS_UPDATE", "Focus settings updated")

	return utils.Success(c, fiber.StatusOK, settings)
}

func (sc *SettingsController) loadOrCreate(userID uint) (*models.FocusSettings, error) {
	var settings models.FocusSettings
	err := sc.DB.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.FocusSettings{
		UserID:                    userID,
		FocusDurationMinutes:      25,
		ShortBreakDurationMinutes: 5,
		LongBreakDurationMinutes:  15,
		CyclesBeforeLongBreak:     4,
	}
	if err := sc.DB.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
