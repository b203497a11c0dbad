package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

type UserController struct {
	Courses *services.CourseService
	Admins  *services.AdminService
	Log     *utils.Logger
}

func NewUserController(courses *services.CourseService, admins *services.AdminService, log *utils.Logger) *UserController {
	return &UserController{Courses: courses, Admins: admins, Log: log}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user with level progress
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := uc.Courses.GetUser(c.UserContext(), userID)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	isAdmin, err := uc.Admins.IsAdmin(c.UserContext(), userID)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user":     user,
		"level":    services.LevelProgressOf(user),
		"is_admin": isAdmin,
	})
}
