package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	Base
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	OrderIndex  int     `gorm:"not null;default:0" json:"order_index"`
	IsActive    bool    `gorm:"not null" json:"is_active"`
	// LessonCount is filled by a COUNT subquery on read and never stored.
	LessonCount LessonCount `gorm:"->;-:migration" json:"lesson_count"`
	Lessons     []Lesson    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Lesson struct {
	Base
	CourseID          uuid.UUID          `gorm:"type:uuid;index;not null" json:"course_id"`
	Title             string             `gorm:"not null" json:"title"`
	MainText          string             `gorm:"type:text" json:"main_text"`
	KeyVerse          string             `json:"key_verse"`
	OrderIndex        int                `gorm:"not null;default:0" json:"order_index"`
	IsActive          bool               `gorm:"not null" json:"is_active"`
	ImageURL          *string            `json:"image_url,omitempty"`
	Questions         []Question         `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
	SpiritualActivity *SpiritualActivity `gorm:"constraint:OnDelete:CASCADE" json:"spiritual_activity,omitempty"`
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
	QuestionReflection     QuestionType = "reflection"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionFillBlank, QuestionReflection:
		return true
	}
	return false
}

type Question struct {
	Base
	LessonID       uuid.UUID                   `gorm:"type:uuid;index;not null" json:"lesson_id"`
	Text           string                      `gorm:"type:text;not null" json:"text"`
	Type           QuestionType                `gorm:"type:varchar(32);not null" json:"type"`
	Options        datatypes.JSONSlice[string] `json:"options,omitempty"`
	CorrectAnswer  AnswerValue                 `json:"correct_answer,omitempty"`
	VerseReference *string                     `json:"verse_reference,omitempty"`
	XPValue        int                         `gorm:"not null;default:10" json:"xp_value"`
}

type ActivityType string

const (
	ActivityReflection ActivityType = "reflection"
	ActivityPrayer     ActivityType = "prayer"
	ActivityDecision   ActivityType = "decision"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityReflection, ActivityPrayer, ActivityDecision:
		return true
	}
	return false
}

type SpiritualActivity struct {
	Base
	LessonID     uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"lesson_id"`
	ActivityType ActivityType `gorm:"type:varchar(32);not null" json:"activity_type"`
	Description  string       `gorm:"type:text" json:"description"`
	Prompt       string       `gorm:"type:text" json:"prompt"`
}
