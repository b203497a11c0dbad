package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string     `json:"full_name"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	PasswordHash string     `gorm:"not null" json:"-"`
	XP           int        `gorm:"not null;default:0" json:"xp"`
	Level        int        `gorm:"not null;default:1" json:"level"`
	StreakDays   int        `gorm:"not null;default:0" json:"streak_days"`
	LastActivity *time.Time `json:"last_activity"`
	// Version is bumped on every XP or streak write; writes are conditional on it.
	Version int `gorm:"not null;default:0" json:"-"`
}

// Admin marks a user as administrator. Absence of a row means a regular user.
type Admin struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
}

// Session is one signed-in device. Its ID is the jti of the issued token.
type Session struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
