package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("record was modified concurrently")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired or revoked")
	ErrInvalidInput       = errors.New("invalid input")
)

// StatusFor maps an error returned by the services to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrSessionExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

const (
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailTaken         = "email_taken"
	CodeSessionExpired     = "session_expired"
	CodeInvalidInput       = "invalid_input"
	CodeValidation         = "validation_failed"
)

// CodeFor returns the stable error code of err, or "" when it has none.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrEmailTaken):
		return CodeEmailTaken
	case errors.Is(err, ErrSessionExpired):
		return CodeSessionExpired
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	default:
		return ""
	}
}

// HandleError renders err in the error envelope. Internal errors are logged
// and answered with a generic message.
func HandleError(c *fiber.Ctx, log *Logger, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return InternalServerError(c, "Internal server error")
	}
	return Error(c, status, err)
}

// ErrorHandler is the app-level fallback for errors returned by handlers.
func ErrorHandler(log *Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return HandleError(c, log, err)
	}
}
