package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/models"
	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

type AuthController struct {
	Auth *services.AuthService
	Log  *utils.Logger
}

func NewAuthController(auth *services.AuthService, log *utils.Logger) *AuthController {
	return &AuthController{Auth: auth, Log: log}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and opens a session
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.SignUpInput true "User registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input models.SignUpInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	result, err := ac.Auth.SignUp(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Created(c, result)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignInInput true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input models.SignInInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	result, err := ac.Auth.SignIn(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// Logout godoc
// @Summary User logout
// @Description Revokes the session of the presented token
// @Tags auth
// @Success 204
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	sessionID, ok := utils.CurrentSessionID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if err := ac.Auth.SignOut(c.UserContext(), sessionID); err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.NoContent(c)
}

// Session godoc
// @Summary Current session
// @Description Returns the live session and its user
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/session [get]
func (ac *AuthController) Session(c *fiber.Ctx) error {
	sessionID, ok := utils.CurrentSessionID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	session, user, err := ac.Auth.CurrentSession(c.UserContext(), sessionID)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"session": session,
		"user":    user,
	})
}
