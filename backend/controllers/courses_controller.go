package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/gamification"
	"sagrapp/backend/models"
	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

type CoursesController struct {
	Courses *services.CourseService
	Admin   *services.AdminService
	Log     *utils.Logger
}

func NewCoursesController(courses *services.CourseService, admin *services.AdminService, log *utils.Logger) *CoursesController {
	return &CoursesController{Courses: courses, Admin: admin, Log: log}
}

// GetCourses godoc
// @Summary List courses
// @Description Returns active courses in display order with their lesson count
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses, err := cc.Courses.GetCourses(c.UserContext())
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

// GetCourseDetails godoc
// @Summary Get course details
// @Description Returns a course with the caller's completion percentage
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	course, err := cc.Courses.GetCourseByID(c.UserContext(), courseID)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	progress, err := cc.Courses.GetUserProgress(c.UserContext(), userID)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	return utils.Success(c, fiber.StatusOK, models.CourseProgress{
		Course:          *course,
		PercentComplete: gamification.PercentComplete(course.ID, []models.Course{*course}, progress),
	})
}

// GetCourseLessons godoc
// @Summary List course lessons
// @Description Returns the active lessons of a course in order
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons [get]
func (cc *CoursesController) GetCourseLessons(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	lessons, err := cc.Courses.GetLessons(c.UserContext(), courseID)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, lessons)
}

// GetLesson godoc
// @Summary Get lesson
// @Description Returns a lesson with its questions and spiritual activity
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (cc *CoursesController) GetLesson(c *fiber.Ctx) error {
	lessonID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	lesson, err := cc.Courses.GetLessonByID(c.UserContext(), lessonID)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

// CompleteLesson godoc
// @Summary Complete lesson
// @Description Grades the answers, records the completion, updates the streak and awards XP
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param request body models.CompleteLessonInput true "Answers and spiritual response"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/complete [post]
func (cc *CoursesController) CompleteLesson(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	lessonID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var input models.CompleteLessonInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	result, err := cc.Courses.CompleteLesson(c.UserContext(), userID, lessonID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// ListAllCourses returns every course for administrators, inactive included.
func (cc *CoursesController) ListAllCourses(c *fiber.Ctx) error {
	courses, err := cc.Admin.ListAllCourses(c.UserContext())
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

// CreateCourse godoc
// @Summary Create course
// @Tags admin
// @Accept json
// @Produce json
// @Param course body models.CourseInput true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input models.CourseInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	course, err := cc.Admin.CreateCourse(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update course
// @Description Changes only the fields present in the body
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body models.CourseInput true "Fields to change"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var input models.CourseInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	course, err := cc.Admin.UpdateCourse(c.UserContext(), courseID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, course)
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := cc.Admin.DeleteCourse(c.UserContext(), courseID); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.NoContent(c)
}

// AddLesson godoc
// @Summary Add lesson
// @Tags admin
// @Accept json
// @Produce json
// @Param lesson body models.LessonInput true "Lesson data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/lessons [post]
func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	var input models.LessonInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	lesson, err := cc.Admin.CreateLesson(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Created(c, lesson)
}

func (cc *CoursesController) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var input models.LessonInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	lesson, err := cc.Admin.UpdateLesson(c.UserContext(), lessonID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

func (cc *CoursesController) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := cc.Admin.DeleteLesson(c.UserContext(), lessonID); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.NoContent(c)
}
