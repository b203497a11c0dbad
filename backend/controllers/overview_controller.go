package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

type OverviewController struct {
	Courses *services.CourseService
	Log     *utils.Logger
}

func NewOverviewController(courses *services.CourseService, log *utils.Logger) *OverviewController {
	return &OverviewController{Courses: courses, Log: log}
}

// GetDashboard returns the home page data: level progress, per-course
// completion and the course to continue.
func (oc *OverviewController) GetDashboard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	overview, err := oc.Courses.Dashboard(c.UserContext(), userID)
	if err != nil {
		return utils.HandleError(c, oc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, overview)
}
