package models

import (
	"github.com/google/uuid"
)

type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=120"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CourseInput is used for both create and partial update; nil fields are
// left untouched on update.
type CourseInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
	// LessonCount may be echoed back by clients in either shape. It is
	// derived on read and never written.
	LessonCount *LessonCount `json:"lesson_count"`
}

type LessonInput struct {
	CourseID   *uuid.UUID `json:"course_id"`
	Title      *string    `json:"title" validate:"omitempty,min=1,max=200"`
	MainText   *string    `json:"main_text"`
	KeyVerse   *string    `json:"key_verse"`
	OrderIndex *int       `json:"order_index" validate:"omitempty,gte=0"`
	IsActive   *bool      `json:"is_active"`
	ImageURL   *string    `json:"image_url" validate:"omitempty,url"`
}

type QuestionInput struct {
	LessonID       *uuid.UUID    `json:"lesson_id"`
	Text           *string       `json:"text" validate:"omitempty,min=1"`
	Type           *QuestionType `json:"type" validate:"omitempty,oneof=multiple_choice true_false fill_blank reflection"`
	Options        []string      `json:"options"`
	CorrectAnswer  AnswerValue   `json:"correct_answer"`
	VerseReference *string       `json:"verse_reference"`
	XPValue        *int          `json:"xp_value" validate:"omitempty,gte=0"`
}

type SpiritualActivityInput struct {
	LessonID     *uuid.UUID    `json:"lesson_id"`
	ActivityType *ActivityType `json:"activity_type" validate:"omitempty,oneof=reflection prayer decision"`
	Description  *string       `json:"description"`
	Prompt       *string       `json:"prompt"`
}

type ProgressInput struct {
	CourseID          uuid.UUID    `json:"course_id" validate:"required"`
	LessonID          uuid.UUID    `json:"lesson_id" validate:"required"`
	Completed         bool         `json:"completed"`
	Answers           []UserAnswer `json:"answers"`
	SpiritualResponse *string      `json:"spiritual_response"`
	XPEarned          int          `json:"xp_earned" validate:"gte=0"`
}

type CompleteLessonInput struct {
	Answers           []UserAnswer `json:"answers"`
	SpiritualResponse *string      `json:"spiritual_response"`
}

type CompletionResult struct {
	Progress   UserProgress `json:"progress"`
	XPEarned   int          `json:"xp_earned"`
	XP         int          `json:"xp"`
	Level      int          `json:"level"`
	LeveledUp  bool         `json:"leveled_up"`
	StreakDays int          `json:"streak_days"`
}
