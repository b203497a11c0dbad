package utils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"sagrapp/backend/config"
)

const (
	localUserID    = "user_id"
	localSessionID = "session_id"
)

// TokenClaims identifies the user and the session a token was issued for.
type TokenClaims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	ExpiresAt time.Time
}

func GenerateJWTToken(userID, sessionID uuid.UUID, expiresAt time.Time, cfg *config.Config) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        sessionID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func ParseJWTToken(tokenString string, cfg *config.Config) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid session ID in token")
	}

	out := &TokenClaims{UserID: userID, SessionID: sessionID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// ExtractClaimsFromToken reads the Authorization header, with or without the
// Bearer prefix, and validates the token.
func ExtractClaimsFromToken(c *fiber.Ctx, cfg *config.Config) (*TokenClaims, error) {
	tokenString := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "bearer ") {
		tokenString = strings.TrimSpace(tokenString[7:])
	}
	if tokenString == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}
	return ParseJWTToken(tokenString, cfg)
}

// SetAuth stores the authenticated identity for downstream handlers.
func SetAuth(c *fiber.Ctx, claims *TokenClaims) {
	c.Locals(localUserID, claims.UserID)
	c.Locals(localSessionID, claims.SessionID)
}

// CurrentUserID returns the user set by the auth middleware.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(localUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func CurrentSessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(localSessionID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
