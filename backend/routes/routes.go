package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	premiumMiddleware := middleware.PremiumMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Task routes
	taskController := controllers.NewTaskController(db, cfg)
	tasks := app.Group("/api/tasks", authMiddleware)
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", taskController.CreateTask)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Post("/:id/complete", taskController.CompleteTask)
	tasks.Delete("/:id", taskController.DeleteTask)

	// Project routes
	projectController := controllers.NewProjectController(db, cfg)
	projects := app.Group("/api/projects", authMiddleware)
	projects.Get("/", projectController.GetProjects)
	projects.Post("/", projectController.CreateProject)
	projects.Put("/:id", projectController.UpdateProject)
	projects.Delete("/:id", projectController.DeleteProject)

	// Tag routes
	tagController := controllers.NewTagController(db, cfg)
	tags := app.Group("/api/tags", authMiddleware)
	tags.Get("/", tagController.GetTags)
	tags.Post("/", tagController.CreateTag)
	tags.Put("/:id", tagController.UpdateTag)
	tags.Delete("/:id", tagController.DeleteTag)

	// Focus settings routes
	settingsController := controllers.NewSettingsController(db, cfg)
	app.Get("/api/settings/focus", authMiddleware, settingsController.GetSettings)
	app.Put("/api/settings/focus", authMiddleware, settingsController.UpdateSettings)

	// Session routes
	sessionController := controllers.NewSessionController(db, cfg)
	sessions := app.Group("/api/sessions", authMiddleware)
	sessions.Get("/", sessionController.GetSessions)
	sessions.Post("/", sessionController.SaveSession)

	// Achievement routes
	achievementController := controllers.NewAchievementController(db, cfg)
	app.Get("/api/achievements", authMiddleware, achievementController.GetAll)
	app.Get("/api/achievements/me", authMiddleware, achievementController.GetMine)

	// Report routes
	reportController := controllers.NewReportController(db, cfg)
	reports := app.Group("/api/reports", authMiddleware)
	reports.Get("/overview", reportController.GetOverview)
	reports.Get("/advanced", reportController.GetAdvanced)
	reports.Get("/insights", premiumMiddleware, reportController.GetInsights)
}
