package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"sagrapp/backend/config"
	"sagrapp/backend/controllers"
	"sagrapp/backend/middleware"
	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

// NewApp builds the Fiber app with the shared error envelope, CORS and
// request logging.
func NewApp(cfg *config.Config, log *utils.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "sagrapp",
		ErrorHandler: utils.ErrorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(log))

	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, log *utils.Logger) {
	courseService := services.NewCourseService(db, log, cfg)
	adminService := services.NewAdminService(db, log)
	authService := services.NewAuthService(db, log, cfg)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg, authService)
	adminMiddleware := middleware.AdminMiddleware(adminService, log)

	api := app.Group("/api")

	// Auth routes
	authController := controllers.NewAuthController(authService, log)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)
	api.Post("/auth/logout", authMiddleware, authController.Logout)
	api.Get("/auth/session", authMiddleware, authController.Session)

	// User routes
	userController := controllers.NewUserController(courseService, adminService, log)
	api.Get("/user/profile", authMiddleware, userController.GetProfile)

	// Courses and lessons
	coursesController := controllers.NewCoursesController(courseService, adminService, log)
	courses := api.Group("/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/lessons", coursesController.GetCourseLessons)

	lessons := api.Group("/lessons", authMiddleware)
	lessons.Get("/:id", coursesController.GetLesson)
	lessons.Post("/:id/complete", coursesController.CompleteLesson)

	// Progress routes
	progressController := controllers.NewProgressController(courseService, log)
	overviewController := controllers.NewOverviewController(courseService, log)
	progress := api.Group("/progress", authMiddleware)
	progress.Get("/", progressController.GetProgress)
	progress.Post("/", progressController.SaveProgress)
	progress.Get("/dashboard", overviewController.GetDashboard)
	progress.Post("/streak", progressController.TouchStreak)

	// Admin routes
	admin := api.Group("/admin", authMiddleware, adminMiddleware)

	admin.Get("/courses", coursesController.ListAllCourses)
	admin.Post("/courses", coursesController.CreateCourse)
	admin.Put("/courses/:id", coursesController.UpdateCourse)
	admin.Delete("/courses/:id", coursesController.DeleteCourse)

	admin.Post("/lessons", coursesController.AddLesson)
	admin.Put("/lessons/:id", coursesController.UpdateLesson)
	admin.Delete("/lessons/:id", coursesController.DeleteLesson)

	questionsController := controllers.NewQuestionsController(adminService, log)
	admin.Post("/questions", questionsController.AddQuestion)
	admin.Put("/questions/:id", questionsController.UpdateQuestion)
	admin.Delete("/questions/:id", questionsController.DeleteQuestion)
	admin.Post("/activities", questionsController.AddActivity)
	admin.Put("/activities/:id", questionsController.UpdateActivity)

	analyticsController := controllers.NewAnalyticsController(adminService, log)
	admin.Get("/users", analyticsController.ListUsers)
	admin.Get("/users/stats", analyticsController.GetUserStats)
	admin.Post("/users/:id/admin", analyticsController.GrantAdmin)
	admin.Delete("/users/:id/admin", analyticsController.RevokeAdmin)
}
