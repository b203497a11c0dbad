package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sagrapp/backend/models"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestOpenTestDBMigratesEveryModel(t *testing.T) {
	db := openDB(t)

	for _, model := range []interface{}{
		&models.User{},
		&models.Admin{},
		&models.Session{},
		&models.Course{},
		&models.Lesson{},
		&models.Question{},
		&models.SpiritualActivity{},
		&models.UserProgress{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasColumn(&models.Question{}, "correct_answer"))
	assert.False(t, db.Migrator().HasColumn(&models.Course{}, "lesson_count"))
}

func TestQuestionAnswerStoredAsJSON(t *testing.T) {
	db := openDB(t)

	course := models.Course{Title: "Gospel of John"}
	require.NoError(t, db.Create(&course).Error)
	lesson := models.Lesson{CourseID: course.ID, Title: "The Word"}
	require.NoError(t, db.Create(&lesson).Error)

	questions := []models.Question{
		{LessonID: lesson.ID, Text: "Who was sent from God?", Type: models.QuestionFillBlank, CorrectAnswer: models.AnswerValue{"John"}},
		{LessonID: lesson.ID, Text: "Pick both", Type: models.QuestionMultipleChoice, CorrectAnswer: models.AnswerValue{"light", "life"}},
		{LessonID: lesson.ID, Text: "What is the Word to you?", Type: models.QuestionReflection},
	}
	require.NoError(t, db.Create(&questions).Error)

	for _, want := range questions {
		var got models.Question
		require.NoError(t, db.Where("id = ?", want.ID).Take(&got).Error)
		assert.Equal(t, want.CorrectAnswer, got.CorrectAnswer, want.Text)
	}
}

func TestDuplicateEmailTranslated(t *testing.T) {
	db := openDB(t)

	require.NoError(t, db.Create(&models.User{Email: "ana@example.com", PasswordHash: "x", Level: 1}).Error)
	err := db.Create(&models.User{Email: "ana@example.com", PasswordHash: "y", Level: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
