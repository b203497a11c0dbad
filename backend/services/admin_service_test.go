package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sagrapp/backend/models"
	"sagrapp/backend/utils"
)

func ptr[T any](v T) *T { return &v }

func TestCourseCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, models.CourseInput{Description: ptr("no title")})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	course, err := svc.CreateCourse(ctx, models.CourseInput{
		Title:      ptr("Gospel of John"),
		OrderIndex: ptr(3),
	})
	require.NoError(t, err)
	assert.True(t, course.IsActive)
	assert.Equal(t, 3, course.OrderIndex)
	assert.Equal(t, 0, course.LessonCount.Int())

	hidden, err := svc.CreateCourse(ctx, models.CourseInput{Title: ptr("Draft"), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	updated, err := svc.UpdateCourse(ctx, course.ID, models.CourseInput{
		Description: ptr("Seven signs"),
		IsActive:    ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gospel of John", updated.Title)
	assert.Equal(t, "Seven signs", updated.Description)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateCourse(ctx, course.ID, models.CourseInput{Title: ptr("")})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.UpdateCourse(ctx, uuid.New(), models.CourseInput{Title: ptr("x")})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	all, err := svc.ListAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))
	assert.ErrorIs(t, svc.DeleteCourse(ctx, course.ID), utils.ErrNotFound)
}

func TestLessonCRUDUpdatesLessonCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, models.CourseInput{Title: ptr("Psalms")})
	require.NoError(t, err)

	_, err = svc.CreateLesson(ctx, models.LessonInput{CourseID: ptr(uuid.New()), Title: ptr("Orphan")})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.CreateLesson(ctx, models.LessonInput{CourseID: &course.ID})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	lesson, err := svc.CreateLesson(ctx, models.LessonInput{
		CourseID: &course.ID,
		Title:    ptr("Psalm 23"),
		KeyVerse: ptr("The Lord is my shepherd"),
	})
	require.NoError(t, err)
	assert.True(t, lesson.IsActive)

	_, err = svc.CreateLesson(ctx, models.LessonInput{CourseID: &course.ID, Title: ptr("Psalm 1"), IsActive: ptr(false)})
	require.NoError(t, err)

	got, err := svc.getCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LessonCount.Int())

	updated, err := svc.UpdateLesson(ctx, lesson.ID, models.LessonInput{MainText: ptr("Green pastures"), OrderIndex: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "Green pastures", updated.MainText)
	assert.Equal(t, 5, updated.OrderIndex)
	assert.Equal(t, "Psalm 23", updated.Title)

	_, err = svc.UpdateLesson(ctx, lesson.ID, models.LessonInput{Title: ptr("")})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	require.NoError(t, svc.DeleteLesson(ctx, lesson.ID))
	assert.ErrorIs(t, svc.DeleteLesson(ctx, lesson.ID), utils.ErrNotFound)

	got, err = svc.getCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LessonCount.Int())
}

func TestQuestionCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()

	course := seedCourse(t, db, "Course", 1, true)
	lesson := seedLesson(t, db, course.ID, "Lesson", 1, true)

	bogus := models.QuestionType("essay")
	_, err := svc.CreateQuestion(ctx, models.QuestionInput{LessonID: &lesson.ID, Text: ptr("?"), Type: &bogus})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	choice := models.QuestionMultipleChoice
	q, err := svc.CreateQuestion(ctx, models.QuestionInput{
		LessonID:      &lesson.ID,
		Text:          ptr("Who wrote Psalm 23?"),
		Type:          &choice,
		Options:       []string{"David", "Moses"},
		CorrectAnswer: models.AnswerValue{"David"},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, q.XPValue)
	assert.Equal(t, []string{"David", "Moses"}, []string(q.Options))

	updated, err := svc.UpdateQuestion(ctx, q.ID, models.QuestionInput{
		Options:       []string{"David", "Moses", "Solomon"},
		CorrectAnswer: models.AnswerValue{"David", "Solomon"},
		XPValue:       ptr(20),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Options, 3)
	assert.Equal(t, models.AnswerValue{"David", "Solomon"}, updated.CorrectAnswer)
	assert.Equal(t, 20, updated.XPValue)
	assert.Equal(t, models.QuestionMultipleChoice, updated.Type)

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID))
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, q.ID), utils.ErrNotFound)
}

func TestSpiritualActivityOnePerLesson(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()

	course := seedCourse(t, db, "Course", 1, true)
	lesson := seedLesson(t, db, course.ID, "Lesson", 1, true)
	prayer := models.ActivityPrayer

	activity, err := svc.CreateSpiritualActivity(ctx, models.SpiritualActivityInput{
		LessonID:     &lesson.ID,
		ActivityType: &prayer,
		Prompt:       ptr("Pray for a friend"),
	})
	require.NoError(t, err)

	_, err = svc.CreateSpiritualActivity(ctx, models.SpiritualActivityInput{LessonID: &lesson.ID, ActivityType: &prayer})
	assert.ErrorIs(t, err, utils.ErrConflict)

	decision := models.ActivityDecision
	updated, err := svc.UpdateSpiritualActivity(ctx, activity.ID, models.SpiritualActivityInput{ActivityType: &decision})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityDecision, updated.ActivityType)
	assert.Equal(t, "Pray for a friend", updated.Prompt)
}

func TestDeleteCourseCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()

	course := seedCourse(t, db, "Course", 1, true)
	lesson := seedLesson(t, db, course.ID, "Lesson", 1, true)
	seedQuestion(t, db, lesson.ID, models.QuestionFillBlank, models.AnswerValue{"love"}, 5)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	var lessons, questions int64
	require.NoError(t, db.Model(&models.Lesson{}).Count(&lessons).Error)
	require.NoError(t, db.Model(&models.Question{}).Count(&questions).Error)
	assert.Zero(t, lessons)
	assert.Zero(t, questions)
}

func TestListUsersAndStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()
	now := day(2026, 3, 10, 12)

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := models.User{
			Email:        email,
			PasswordHash: "x",
			Level:        1,
			Base:         models.Base{CreatedAt: now.Add(time.Duration(i) * time.Hour)},
		}
		require.NoError(t, db.Create(&user).Error)
	}
	recent := now.Add(-48 * time.Hour)
	stale := now.Add(-30 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@example.com").Update("last_activity", recent).Error)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "b@example.com").Update("last_activity", stale).Error)

	users, total, err := svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "c@example.com", users[0].Email)

	users, _, err = svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)

	stats, err := svc.UserStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveUsers)
}

func TestAdminMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()
	user := seedUser(t, db, "ana@example.com")

	isAdmin, err := svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, svc.GrantAdmin(ctx, user.ID))
	require.NoError(t, svc.GrantAdmin(ctx, user.ID))

	isAdmin, err = svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	assert.ErrorIs(t, svc.GrantAdmin(ctx, uuid.New()), utils.ErrNotFound)
}

func TestRevokeAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, utils.NopLogger())
	ctx := context.Background()
	owner := seedUser(t, db, "admin@example.com")
	user := seedUser(t, db, "ana@example.com")
	require.NoError(t, svc.GrantAdmin(ctx, owner.ID))
	require.NoError(t, svc.GrantAdmin(ctx, user.ID))

	assert.ErrorIs(t, svc.RevokeAdmin(ctx, owner.ID, owner.ID), utils.ErrInvalidInput)

	require.NoError(t, svc.RevokeAdmin(ctx, owner.ID, user.ID))
	isAdmin, err := svc.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isAdmin, err = svc.IsAdmin(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	assert.ErrorIs(t, svc.RevokeAdmin(ctx, owner.ID, user.ID), utils.ErrNotFound)
	assert.ErrorIs(t, svc.RevokeAdmin(ctx, owner.ID, uuid.New()), utils.ErrNotFound)
}
