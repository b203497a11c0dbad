package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sagrapp/backend/models"
	"sagrapp/backend/utils"
)

// ActiveWindow is how far back last_activity may be for a user to count as
// active in UserStats.
const ActiveWindow = 7 * 24 * time.Hour

// AdminService manages content and users on behalf of administrators.
type AdminService struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewAdminService(db *gorm.DB, log *utils.Logger) *AdminService {
	return &AdminService{db: db, log: log.With("service", "AdminService")}
}

// ListAllCourses lists every course, active or not, in display order.
func (s *AdminService) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := coursesWithLessonCount(s.db.WithContext(ctx)).
		Order("courses.order_index").
		Find(&courses).Error; err != nil {
		s.log.Error("Error fetching all courses", "error", err)
		return nil, fmt.Errorf("fetch all courses: %w", err)
	}
	return courses, nil
}

func (s *AdminService) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	if in.Title == nil || *in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
	}

	course := models.Course{
		Title:    *in.Title,
		ImageURL: in.ImageURL,
		IsActive: true,
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.OrderIndex != nil {
		course.OrderIndex = *in.OrderIndex
	}
	if in.IsActive != nil {
		course.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		s.log.Error("Error creating course", "error", err)
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("Course created", "course_id", course.ID, "title", course.Title)
	return s.getCourse(ctx, course.ID)
}

func (s *AdminService) UpdateCourse(ctx context.Context, courseID uuid.UUID, in models.CourseInput) (*models.Course, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", utils.ErrInvalidInput)
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.OrderIndex != nil {
		fields["order_index"] = *in.OrderIndex
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if err := s.update(ctx, &models.Course{}, courseID, fields, "course"); err != nil {
		return nil, err
	}
	return s.getCourse(ctx, courseID)
}

func (s *AdminService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	return s.delete(ctx, &models.Course{}, courseID, "course")
}

// CreateLesson adds a lesson to an existing course. Missing text fields
// default to empty and the lesson is active unless stated otherwise.
func (s *AdminService) CreateLesson(ctx context.Context, in models.LessonInput) (*models.Lesson, error) {
	if in.CourseID == nil || *in.CourseID == uuid.Nil {
		return nil, fmt.Errorf("%w: course_id is required", utils.ErrInvalidInput)
	}
	if in.Title == nil || *in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
	}
	if err := s.exists(ctx, &models.Course{}, *in.CourseID, "course"); err != nil {
		return nil, err
	}

	lesson := models.Lesson{
		CourseID: *in.CourseID,
		Title:    *in.Title,
		IsActive: true,
		ImageURL: in.ImageURL,
	}
	if in.MainText != nil {
		lesson.MainText = *in.MainText
	}
	if in.KeyVerse != nil {
		lesson.KeyVerse = *in.KeyVerse
	}
	if in.OrderIndex != nil {
		lesson.OrderIndex = *in.OrderIndex
	}
	if in.IsActive != nil {
		lesson.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&lesson).Error; err != nil {
		s.log.Error("Error creating lesson", "course_id", lesson.CourseID, "error", err)
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return &lesson, nil
}

func (s *AdminService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, in models.LessonInput) (*models.Lesson, error) {
	fields := map[string]interface{}{}
	if in.CourseID != nil {
		if err := s.exists(ctx, &models.Course{}, *in.CourseID, "course"); err != nil {
			return nil, err
		}
		fields["course_id"] = *in.CourseID
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", utils.ErrInvalidInput)
		}
		fields["title"] = *in.Title
	}
	if in.MainText != nil {
		fields["main_text"] = *in.MainText
	}
	if in.KeyVerse != nil {
		fields["key_verse"] = *in.KeyVerse
	}
	if in.OrderIndex != nil {
		fields["order_index"] = *in.OrderIndex
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}

	if err := s.update(ctx, &models.Lesson{}, lessonID, fields, "lesson"); err != nil {
		return nil, err
	}

	var lesson models.Lesson
	if err := s.db.WithContext(ctx).Where("id = ?", lessonID).Take(&lesson).Error; err != nil {
		return nil, notFound("lesson", err)
	}
	return &lesson, nil
}

func (s *AdminService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	return s.delete(ctx, &models.Lesson{}, lessonID, "lesson")
}

func (s *AdminService) CreateQuestion(ctx context.Context, in models.QuestionInput) (*models.Question, error) {
	if in.LessonID == nil || *in.LessonID == uuid.Nil {
		return nil, fmt.Errorf("%w: lesson_id is required", utils.ErrInvalidInput)
	}
	if in.Text == nil || *in.Text == "" {
		return nil, fmt.Errorf("%w: text is required", utils.ErrInvalidInput)
	}
	if in.Type == nil || !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown question type", utils.ErrInvalidInput)
	}
	if err := s.exists(ctx, &models.Lesson{}, *in.LessonID, "lesson"); err != nil {
		return nil, err
	}

	question := models.Question{
		LessonID:       *in.LessonID,
		Text:           *in.Text,
		Type:           *in.Type,
		Options:        in.Options,
		CorrectAnswer:  in.CorrectAnswer,
		VerseReference: in.VerseReference,
	}
	if in.XPValue != nil {
		question.XPValue = *in.XPValue
	}

	if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
		s.log.Error("Error creating question", "lesson_id", question.LessonID, "error", err)
		return nil, fmt.Errorf("create question: %w", err)
	}
	return s.getQuestion(ctx, question.ID)
}

func (s *AdminService) UpdateQuestion(ctx context.Context, questionID uuid.UUID, in models.QuestionInput) (*models.Question, error) {
	fields := map[string]interface{}{}
	if in.LessonID != nil {
		if err := s.exists(ctx, &models.Lesson{}, *in.LessonID, "lesson"); err != nil {
			return nil, err
		}
		fields["lesson_id"] = *in.LessonID
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown question type", utils.ErrInvalidInput)
		}
		fields["type"] = *in.Type
	}
	if in.Options != nil {
		fields["options"] = datatypes.JSONSlice[string](in.Options)
	}
	if in.CorrectAnswer != nil {
		fields["correct_answer"] = in.CorrectAnswer
	}
	if in.VerseReference != nil {
		fields["verse_reference"] = *in.VerseReference
	}
	if in.XPValue != nil {
		fields["xp_value"] = *in.XPValue
	}

	if err := s.update(ctx, &models.Question{}, questionID, fields, "question"); err != nil {
		return nil, err
	}
	return s.getQuestion(ctx, questionID)
}

func (s *AdminService) DeleteQuestion(ctx context.Context, questionID uuid.UUID) error {
	return s.delete(ctx, &models.Question{}, questionID, "question")
}

func (s *AdminService) CreateSpiritualActivity(ctx context.Context, in models.SpiritualActivityInput) (*models.SpiritualActivity, error) {
	if in.LessonID == nil || *in.LessonID == uuid.Nil {
		return nil, fmt.Errorf("%w: lesson_id is required", utils.ErrInvalidInput)
	}
	if in.ActivityType == nil || !in.ActivityType.Valid() {
		return nil, fmt.Errorf("%w: unknown activity type", utils.ErrInvalidInput)
	}
	if err := s.exists(ctx, &models.Lesson{}, *in.LessonID, "lesson"); err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.SpiritualActivity{}).
		Where("lesson_id = ?", *in.LessonID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check spiritual activity: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: lesson already has a spiritual activity", utils.ErrConflict)
	}

	activity := models.SpiritualActivity{
		LessonID:     *in.LessonID,
		ActivityType: *in.ActivityType,
	}
	if in.Description != nil {
		activity.Description = *in.Description
	}
	if in.Prompt != nil {
		activity.Prompt = *in.Prompt
	}

	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		s.log.Error("Error creating spiritual activity", "lesson_id", activity.LessonID, "error", err)
		return nil, fmt.Errorf("create spiritual activity: %w", err)
	}
	return &activity, nil
}

func (s *AdminService) UpdateSpiritualActivity(ctx context.Context, activityID uuid.UUID, in models.SpiritualActivityInput) (*models.SpiritualActivity, error) {
	fields := map[string]interface{}{}
	if in.ActivityType != nil {
		if !in.ActivityType.Valid() {
			return nil, fmt.Errorf("%w: unknown activity type", utils.ErrInvalidInput)
		}
		fields["activity_type"] = *in.ActivityType
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Prompt != nil {
		fields["prompt"] = *in.Prompt
	}

	if err := s.update(ctx, &models.SpiritualActivity{}, activityID, fields, "spiritual activity"); err != nil {
		return nil, err
	}

	var activity models.SpiritualActivity
	if err := s.db.WithContext(ctx).Where("id = ?", activityID).Take(&activity).Error; err != nil {
		return nil, notFound("spiritual activity", err)
	}
	return &activity, nil
}

// ListUsers pages through users, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		s.log.Error("Error fetching users", "error", err)
		return nil, 0, fmt.Errorf("fetch users: %w", err)
	}
	return users, total, nil
}

// UserStats counts all users and those active within ActiveWindow of now.
func (s *AdminService) UserStats(ctx context.Context, now time.Time) (*models.UserStats, error) {
	db := s.db.WithContext(ctx)

	var stats models.UserStats
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&models.User{}).
		Where("last_activity >= ?", now.UTC().Add(-ActiveWindow)).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	return &stats, nil
}

// IsAdmin reports admin membership. A missing row is not an error.
func (s *AdminService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&admin).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		s.log.Error("Error checking admin status", "user_id", userID, "error", err)
		return false, fmt.Errorf("check admin status: %w", err)
	}
}

// GrantAdmin makes a user an administrator. Granting twice is a no-op.
func (s *AdminService) GrantAdmin(ctx context.Context, userID uuid.UUID) error {
	if err := s.exists(ctx, &models.User{}, userID, "user"); err != nil {
		return err
	}
	isAdmin, err := s.IsAdmin(ctx, userID)
	if err != nil || isAdmin {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&models.Admin{UserID: userID}).Error; err != nil {
		return fmt.Errorf("grant admin: %w", err)
	}
	s.log.Info("Admin granted", "user_id", userID)
	return nil
}

// RevokeAdmin removes userID's admin role. An administrator cannot revoke
// their own role.
func (s *AdminService) RevokeAdmin(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return fmt.Errorf("%w: cannot revoke your own admin role", utils.ErrInvalidInput)
	}
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Admin{})
	if res.Error != nil {
		return fmt.Errorf("revoke admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("admin: %w", utils.ErrNotFound)
	}
	s.log.Info("Admin revoked", "user_id", userID, "by", actorID)
	return nil
}

func (s *AdminService) getCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := coursesWithLessonCount(s.db.WithContext(ctx)).
		Where("courses.id = ?", courseID).
		Take(&course).Error; err != nil {
		return nil, notFound("course", err)
	}
	return &course, nil
}

func (s *AdminService) getQuestion(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).Where("id = ?", questionID).Take(&question).Error; err != nil {
		return nil, notFound("question", err)
	}
	return &question, nil
}

func (s *AdminService) exists(ctx context.Context, model interface{}, id uuid.UUID, what string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s: %w", what, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	}
	return nil
}

func (s *AdminService) update(ctx context.Context, model interface{}, id uuid.UUID, fields map[string]interface{}, what string) error {
	if len(fields) == 0 {
		return s.exists(ctx, model, id, what)
	}

	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		s.log.Error("Error updating "+what, "id", id, "error", res.Error)
		return fmt.Errorf("update %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	}
	return nil
}

func (s *AdminService) delete(ctx context.Context, model interface{}, id uuid.UUID, what string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		s.log.Error("Error deleting "+what, "id", id, "error", res.Error)
		return fmt.Errorf("delete %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	}
	s.log.Info("Deleted "+what, "id", id)
	return nil
}
