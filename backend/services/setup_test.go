package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sagrapp/backend/config"
	"sagrapp/backend/gamification"
	"sagrapp/backend/models"
	"sagrapp/backend/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.OpenTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		StreakMode:  gamification.StreakCalendar,
		Location:    time.UTC,
		AdminEmails: []string{"Admin@Example.com"},
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, FullName: "Test User", PasswordHash: "x", Level: 1}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, order int, active bool) *models.Course {
	t.Helper()
	course := models.Course{Title: title, OrderIndex: order, IsActive: active}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func seedLesson(t *testing.T, db *gorm.DB, courseID uuid.UUID, title string, order int, active bool) *models.Lesson {
	t.Helper()
	lesson := models.Lesson{CourseID: courseID, Title: title, OrderIndex: order, IsActive: active}
	require.NoError(t, db.Create(&lesson).Error)
	return &lesson
}

func seedQuestion(t *testing.T, db *gorm.DB, lessonID uuid.UUID, kind models.QuestionType, correct models.AnswerValue, xp int) *models.Question {
	t.Helper()
	q := models.Question{LessonID: lessonID, Text: "Question", Type: kind, CorrectAnswer: correct, XPValue: xp}
	require.NoError(t, db.Create(&q).Error)
	return &q
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}
