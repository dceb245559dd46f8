package controllers

import (
	"strconv"

	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProjectController struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Achievements *services.AchievementEngine
}

func NewProjectController(db *gorm.DB, cfg *config.Config) *ProjectController {
	return &ProjectController{
		DB:           db,
		Cfg:          cfg,
		Achievements: newAchievementEngine(db),
	}
}

// GetProjects возвращает проекты пользователя
func (pc *ProjectController) GetProjects(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var projects []models.Project
	if err := pc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch projects")
	}

	return utils.Success(c, fiber.StatusOK, projects)
}

// CreateProject создает новый проект
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type CreateInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	project := models.Project{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Status:      "ACTIVE",
	}

	if err := pc.DB.Create(&project).Error; err != nil {
		return utils.InternalServerError(c, "Could not create project")
	}

	return utils.Created(c, project)
}

// UpdateProject обновляет проект; перевод в COMPLETED запускает проверку
// достижений
func (pc *ProjectController) UpdateProject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	project, err := pc.findProject(c, userID)
	if err != nil {
		return utils.NotFound(c, "Project not found")
	}

	type UpdateInput struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}

	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	completedNow := false
	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		switch *input.Status {
		case "ACTIVE", "COMPLETED", "ARCHIVED":
			completedNow = *input.Status == "COMPLETED" && project.Status != "COMPLETED"
			project.Status = *input.Status
		default:
			return utils.BadRequest(c, "Unknown project status")
		}
	}

	if err := pc.DB.Save(project).Error; err != nil {
		return utils.InternalServerError(c, "Could not update project")
	}

	if completedNow {
		pc.Achievements.Evaluate(userID)
	}

	return utils.Success(c, fiber.StatusOK, project)
}

// DeleteProject мягко удаляет проект
func (pc *ProjectController) DeleteProject(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	project, err := pc.findProject(c, userID)
	if err != nil {
		return utils.NotFound(c, "Project not found")
	}

	if err := pc.DB.Delete(project).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete project")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Project deleted"})
}

func (pc *ProjectController) findProject(c *fiber.Ctx, userID uint) (*models.Project, error) {
	projectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := pc.DB.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}
