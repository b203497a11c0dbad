package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/models"
	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

// QuestionsController manages lesson questions and spiritual activities.
type QuestionsController struct {
	Admin *services.AdminService
	Log   *utils.Logger
}

func NewQuestionsController(admin *services.AdminService, log *utils.Logger) *QuestionsController {
	return &QuestionsController{Admin: admin, Log: log}
}

// AddQuestion godoc
// @Summary Add question
// @Description Adds a question to a lesson. correct_answer may be a string or a list of strings
// @Tags admin
// @Accept json
// @Produce json
// @Param question body models.QuestionInput true "Question data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions [post]
func (qc *QuestionsController) AddQuestion(c *fiber.Ctx) error {
	var input models.QuestionInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	question, err := qc.Admin.CreateQuestion(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return utils.Created(c, question)
}

// UpdateQuestion godoc
// @Summary Update question
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body models.QuestionInput true "Fields to change"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/{id} [put]
func (qc *QuestionsController) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var input models.QuestionInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	question, err := qc.Admin.UpdateQuestion(c.UserContext(), questionID, input)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, question)
}

func (qc *QuestionsController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := qc.Admin.DeleteQuestion(c.UserContext(), questionID); err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return utils.NoContent(c)
}

// AddActivity godoc
// @Summary Add spiritual activity
// @Description Attaches the spiritual activity of a lesson. A lesson has at most one
// @Tags admin
// @Accept json
// @Produce json
// @Param activity body models.SpiritualActivityInput true "Activity data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/activities [post]
func (qc *QuestionsController) AddActivity(c *fiber.Ctx) error {
	var input models.SpiritualActivityInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	activity, err := qc.Admin.CreateSpiritualActivity(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return utils.Created(c, activity)
}

func (qc *QuestionsController) UpdateActivity(c *fiber.Ctx) error {
	activityID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var input models.SpiritualActivityInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	activity, err := qc.Admin.UpdateSpiritualActivity(c.UserContext(), activityID, input)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, activity)
}
