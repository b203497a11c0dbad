package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserAnswer struct {
	QuestionID uuid.UUID   `json:"question_id"`
	UserAnswer AnswerValue `json:"user_answer"`
	IsCorrect  *bool       `json:"is_correct,omitempty"`
}

// UserProgress is one lesson interaction. Repeated completions of the same
// lesson produce additional rows.
type UserProgress struct {
	Base
	UserID            uuid.UUID                       `gorm:"type:uuid;index;not null" json:"user_id"`
	CourseID          uuid.UUID                       `gorm:"type:uuid;index;not null" json:"course_id"`
	LessonID          uuid.UUID                       `gorm:"type:uuid;index;not null" json:"lesson_id"`
	Completed         bool                            `gorm:"not null" json:"completed"`
	Answers           datatypes.JSONSlice[UserAnswer] `json:"answers"`
	SpiritualResponse *string                         `gorm:"type:text" json:"spiritual_response,omitempty"`
	XPEarned          int                             `gorm:"not null;default:0" json:"xp_earned"`
	CompletedAt       *time.Time                      `json:"completed_at,omitempty"`
}

func (UserProgress) TableName() string { return "user_progress" }

type CourseProgress struct {
	Course          Course `json:"course"`
	PercentComplete int    `json:"percent_complete"`
}

type LevelProgress struct {
	Level         int `json:"level"`
	XP            int `json:"xp"`
	NextThreshold int `json:"next_threshold"`
	XPToNext      int `json:"xp_to_next"`
}

type DashboardOverview struct {
	User         *User            `json:"user"`
	Level        LevelProgress    `json:"level"`
	Courses      []CourseProgress `json:"courses"`
	ActiveCourse *Course          `json:"active_course"`
	Completed    int              `json:"lessons_completed"`
	TotalXP      int              `json:"total_xp_earned"`
}

type UserStats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
}
