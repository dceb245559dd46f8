package controllers

import (
	"regexp"
	"strconv"

	"project/backend/config"
	"project/backend/models"
	"project/backend/repositories"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Бесплатный план ограничен пятью метками
const freeTagLimit = 5

var tagColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

const defaultTagColor = "#6366F1"

type TagController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Audit *repositories.AuditLogger
}

func NewTagController(db *gorm.DB, cfg *config.Config) *TagController {
	return &TagController{
		DB:    db,
		Cfg:   cfg,
		Audit: repositories.NewAuditLogger(db),
	}
}

// GetTags возвращает метки пользователя
func (tc *TagController) GetTags(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var tags []models.Tag
	if err := tc.DB.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&tags).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch tags")
	}

	return utils.Success(c, fiber.StatusOK, tags)
}

// CreateTag создает метку. На бесплатном плане действует лимит количества
func (tc *TagController) CreateTag(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type CreateInput struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}
	if input.Color == "" {
		input.Color = defaultTagColor
	}
	if !tagColorPattern.MatchString(input.Color) {
		return utils.BadRequest(c, "Color must be a hex value like #AABBCC")
	}

	var user models.User
	if err := tc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if user.Plan != "EPIC" {
		var count int64
		if err := tc.DB.Model(&models.Tag{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			return utils.InternalServerError(c, "Failed to count tags")
		}
		if count >= freeTagLimit {
			return utils.Forbidden(c, "Forbidden - Free plan is limited to 5 tags")
		}
	}

	tag := models.Tag{
		UserID: userID,
		Name:   input.Name,
		Color:  input.Color,
	}

	if err := tc.DB.Create(&tag).Error; err != nil {
		return utils.InternalServerError(c, "Could not create tag")
	}

	tc.Audit.Record(userID, "TAG_CREATE", "Tag created: "+tag.Name)

	return utils.Created(c, tag)
}

// UpdateTag обновляет имя или цвет метки
func (tc *TagController) UpdateTag(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	tag, err := tc.findTag(c, userID)
	if err != nil {
		return utils.NotFound(c, "Tag not found")
	}

	type UpdateInput struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return utils.BadRequest(c, "Name is required")
		}
		tag.Name = *input.Name
	}
	if input.Color != nil {
		if !tagColorPattern.MatchString(*input.Color) {
			return utils.BadRequest(c, "Color must be a hex value like #AABBCC")
		}
		tag.Color = *input.Color
	}

	if err := tc.DB.Save(tag).Error; err != nil {
		return utils.InternalServerError(c, "Could not update tag")
	}

	return utils.Success(c, fiber.StatusOK, tag)
}

// DeleteTag мягко удаляет метку
func (tc *TagController) DeleteTag(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	tag, err := tc.findTag(c, userID)
	if err != nil {
		return utils.NotFound(c, "Tag not found")
	}

	if err := tc.DB.Delete(tag).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete tag")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Tag deleted"})
}

func (tc *TagController) findTag(c *fiber.Ctx, userID uint) (*models.Tag, error) {
	tagID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := tc.DB.Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}
