package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sagrapp/backend/config"
	"sagrapp/backend/gamification"
	"sagrapp/backend/models"
	"sagrapp/backend/utils"
)

// CourseService is the learner-facing data access: catalog, lessons,
// progress, XP and streak writes.
type CourseService struct {
	db         *gorm.DB
	log        *utils.Logger
	loc        *time.Location
	streakMode gamification.StreakMode
	now        func() time.Time
}

func NewCourseService(db *gorm.DB, log *utils.Logger, cfg *config.Config) *CourseService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &CourseService{
		db:         db,
		log:        log.With("service", "CourseService"),
		loc:        loc,
		streakMode: cfg.StreakMode,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source.
func (s *CourseService) SetClock(now func() time.Time) { s.now = now }

// coursesWithLessonCount selects courses together with their lesson count.
func coursesWithLessonCount(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.Course{}).
		Select("courses.*, (SELECT COUNT(*) FROM lessons WHERE lessons.course_id = courses.id) AS lesson_count")
}

// GetCourses lists active courses in display order.
func (s *CourseService) GetCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := coursesWithLessonCount(s.db.WithContext(ctx)).
		Where("courses.is_active = ?", true).
		Order("courses.order_index").
		Find(&courses).Error; err != nil {
		s.log.Error("Error fetching courses", "error", err)
		return nil, fmt.Errorf("fetch courses: %w", err)
	}
	return courses, nil
}

func (s *CourseService) GetCourseByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := coursesWithLessonCount(s.db.WithContext(ctx)).
		Where("courses.id = ?", courseID).
		Take(&course).Error; err != nil {
		return nil, notFound("course", err)
	}
	return &course, nil
}

// GetLessons lists the active lessons of a course in display order.
func (s *CourseService) GetLessons(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := s.db.WithContext(ctx).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Order("order_index").
		Find(&lessons).Error; err != nil {
		s.log.Error("Error fetching lessons", "course_id", courseID, "error", err)
		return nil, fmt.Errorf("fetch lessons: %w", err)
	}
	return lessons, nil
}

// GetLessonByID loads a lesson with its questions and, when there is one,
// its spiritual activity.
func (s *CourseService) GetLessonByID(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, error) {
	db := s.db.WithContext(ctx)

	var lesson models.Lesson
	if err := db.Where("id = ?", lessonID).Take(&lesson).Error; err != nil {
		return nil, notFound("lesson", err)
	}

	if err := db.Where("lesson_id = ?", lessonID).
		Order("created_at").Order("id").
		Find(&lesson.Questions).Error; err != nil {
		s.log.Error("Error fetching questions", "lesson_id", lessonID, "error", err)
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	var activity models.SpiritualActivity
	err := db.Where("lesson_id = ?", lessonID).Take(&activity).Error
	switch {
	case err == nil:
		lesson.SpiritualActivity = &activity
	case errors.Is(err, gorm.ErrRecordNotFound):
		// a lesson without an activity is normal
	default:
		s.log.Error("Error fetching spiritual activity", "lesson_id", lessonID, "error", err)
		return nil, fmt.Errorf("fetch spiritual activity: %w", err)
	}

	return &lesson, nil
}

func (s *CourseService) GetUserProgress(ctx context.Context, userID uuid.UUID) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&progress).Error; err != nil {
		s.log.Error("Error fetching user progress", "user_id", userID, "error", err)
		return nil, fmt.Errorf("fetch user progress: %w", err)
	}
	return progress, nil
}

// SaveLessonProgress inserts one progress row. Completed rows without a
// completion time are stamped with the current time.
func (s *CourseService) SaveLessonProgress(ctx context.Context, progress *models.UserProgress) error {
	if progress.UserID == uuid.Nil || progress.CourseID == uuid.Nil || progress.LessonID == uuid.Nil {
		return fmt.Errorf("%w: user, course and lesson are required", utils.ErrInvalidInput)
	}
	if progress.Completed && progress.CompletedAt == nil {
		now := s.now()
		progress.CompletedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(progress).Error; err != nil {
		s.log.Error("Error saving lesson progress", "user_id", progress.UserID, "lesson_id", progress.LessonID, "error", err)
		return fmt.Errorf("save lesson progress: %w", err)
	}
	return nil
}

func (s *CourseService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, notFound("user", err)
	}
	return &user, nil
}

// AwardXP adds delta XP to the user, levels up at most once and refreshes
// last_activity. The write fails with ErrConflict if the user row changed
// since it was read.
func (s *CourseService) AwardXP(ctx context.Context, userID uuid.UUID, delta int) (newXP, newLevel int, err error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	newXP, newLevel = gamification.ApplyXP(user.XP, user.Level, delta)
	if err := s.updateUser(ctx, user, map[string]interface{}{
		"xp":            newXP,
		"level":         newLevel,
		"last_activity": s.now(),
	}); err != nil {
		return 0, 0, err
	}

	if newLevel > user.Level {
		s.log.Info("User leveled up", "user_id", userID, "level", newLevel, "xp", newXP)
	}
	return newXP, newLevel, nil
}

// TouchStreak records an activity at now and returns the resulting streak.
// Nothing is written when the streak does not change.
func (s *CourseService) TouchStreak(ctx context.Context, userID uuid.UUID, now time.Time) (streak int, changed bool, err error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	var last time.Time
	if user.LastActivity != nil {
		last = *user.LastActivity
	}

	streak, changed = gamification.Streak(s.streakMode, last, user.StreakDays, now, s.loc)
	if !changed {
		return streak, false, nil
	}

	if err := s.updateUser(ctx, user, map[string]interface{}{
		"streak_days":   streak,
		"last_activity": now.UTC(),
	}); err != nil {
		return 0, false, err
	}
	return streak, true, nil
}

// updateUser applies fields only if the stored version still matches.
func (s *CourseService) updateUser(ctx context.Context, user *models.User, fields map[string]interface{}) error {
	fields["version"] = user.Version + 1

	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(fields)
	if res.Error != nil {
		s.log.Error("Error updating user", "user_id", user.ID, "error", res.Error)
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Warn("Lost update on user", "user_id", user.ID, "version", user.Version)
		return fmt.Errorf("update user %s: %w", user.ID, utils.ErrConflict)
	}
	user.Version++
	return nil
}

// CompleteLesson grades the answers, stores a completed progress row, then
// updates the streak and awards the earned XP. These are separate writes.
// The streak goes first because the XP write refreshes last_activity.
func (s *CourseService) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID, input models.CompleteLessonInput) (*models.CompletionResult, error) {
	lesson, err := s.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	answers, xpEarned := gamification.GradeAnswers(lesson.Questions, input.Answers)
	now := s.now()
	progress := models.UserProgress{
		UserID:            userID,
		CourseID:          lesson.CourseID,
		LessonID:          lesson.ID,
		Completed:         true,
		Answers:           answers,
		SpiritualResponse: input.SpiritualResponse,
		XPEarned:          xpEarned,
		CompletedAt:       &now,
	}
	if err := s.SaveLessonProgress(ctx, &progress); err != nil {
		return nil, err
	}

	streak, _, err := s.TouchStreak(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	xp, level, err := s.AwardXP(ctx, userID, xpEarned)
	if err != nil {
		return nil, err
	}

	s.log.Info("Lesson completed",
		"user_id", userID,
		"lesson_id", lessonID,
		"xp_earned", xpEarned,
		"streak_days", streak,
	)

	return &models.CompletionResult{
		Progress:   progress,
		XPEarned:   xpEarned,
		XP:         xp,
		Level:      level,
		LeveledUp:  level > user.Level,
		StreakDays: streak,
	}, nil
}

// Dashboard gathers what the learner's home page shows.
func (s *CourseService) Dashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardOverview, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := make(map[uuid.UUID]struct{})
	totalXP := 0
	for i := range progress {
		if progress[i].Completed {
			completed[progress[i].LessonID] = struct{}{}
		}
		totalXP += progress[i].XPEarned
	}

	return &models.DashboardOverview{
		User:         user,
		Level:        LevelProgressOf(user),
		Courses:      gamification.CourseProgressList(courses, progress),
		ActiveCourse: gamification.ActiveCourse(courses, progress),
		Completed:    len(completed),
		TotalXP:      totalXP,
	}, nil
}

func LevelProgressOf(user *models.User) models.LevelProgress {
	return models.LevelProgress{
		Level:         user.Level,
		XP:            user.XP,
		NextThreshold: gamification.LevelThreshold(user.Level),
		XPToNext:      gamification.XPToNextLevel(user.XP, user.Level),
	}
}

func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	}
	return fmt.Errorf("fetch %s: %w", what, err)
}
