package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/models"
	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

type ProgressController struct {
	Courses *services.CourseService
	Log     *utils.Logger
	now     func() time.Time
}

func NewProgressController(courses *services.CourseService, log *utils.Logger) *ProgressController {
	return &ProgressController{Courses: courses, Log: log, now: time.Now}
}

// GetProgress godoc
// @Summary Get user progress
// @Description Returns every progress row of the authenticated user
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	progress, err := pc.Courses.GetUserProgress(c.UserContext(), userID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// SaveProgress godoc
// @Summary Save lesson progress
// @Description Stores one progress row for the authenticated user
// @Tags progress
// @Accept json
// @Produce json
// @Param progress body models.ProgressInput true "Progress data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [post]
func (pc *ProgressController) SaveProgress(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input models.ProgressInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	progress := models.UserProgress{
		UserID:            userID,
		CourseID:          input.CourseID,
		LessonID:          input.LessonID,
		Completed:         input.Completed,
		Answers:           input.Answers,
		SpiritualResponse: input.SpiritualResponse,
		XPEarned:          input.XPEarned,
	}
	if err := pc.Courses.SaveLessonProgress(c.UserContext(), &progress); err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Created(c, progress)
}

// TouchStreak godoc
// @Summary Record activity
// @Description Updates the daily streak of the authenticated user
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/streak [post]
func (pc *ProgressController) TouchStreak(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	streak, changed, err := pc.Courses.TouchStreak(c.UserContext(), userID, pc.now())
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"streak_days": streak,
		"changed":     changed,
	})
}
