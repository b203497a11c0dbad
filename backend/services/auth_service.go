package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sagrapp/backend/config"
	"sagrapp/backend/models"
	"sagrapp/backend/utils"
)

type AuthResult struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user"`
	Session *models.Session `json:"session"`
}

// AuthService signs users up and in and tracks their sessions.
type AuthService struct {
	db     *gorm.DB
	log    *utils.Logger
	cfg    *config.Config
	admins map[string]bool
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, log *utils.Logger, cfg *config.Config) *AuthService {
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[normalizeEmail(email)] = true
	}
	return &AuthService{
		db:     db,
		log:    log.With("service", "AuthService"),
		cfg:    cfg,
		admins: admins,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) SignUp(ctx context.Context, in models.SignUpInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, utils.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hashedPassword),
		Level:        1,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailTaken
		}
		s.log.Error("Could not create user", "email", email, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.admins[email] {
		if err := db.Create(&models.Admin{UserID: user.ID}).Error; err != nil {
			return nil, fmt.Errorf("grant admin: %w", err)
		}
		s.log.Info("Admin bootstrapped", "user_id", user.ID)
	}

	s.log.Info("User registered", "user_id", user.ID)
	return s.openSession(ctx, &user)
}

func (s *AuthService) SignIn(ctx context.Context, in models.SignInInput) (*AuthResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	return s.openSession(ctx, &user)
}

// SignOut revokes the session. Revoking an unknown or already revoked
// session is not an error.
func (s *AuthService) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", s.now()).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// CurrentSession returns the live session and its user.
func (s *AuthService) CurrentSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, *models.User, error) {
	db := s.db.WithContext(ctx)

	var session models.Session
	if err := db.Where("id = ?", sessionID).Take(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("find session: %w", err)
	}
	if !session.Active(s.now()) {
		return nil, nil, utils.ErrSessionExpired
	}

	var user models.User
	if err := db.Where("id = ?", session.UserID).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("find session user: %w", err)
	}
	return &session, &user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.cfg.TokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := utils.GenerateJWTToken(user.ID, session.ID, session.ExpiresAt, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: user, Session: &session}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
