package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

// AnalyticsController serves the user administration pages.
type AnalyticsController struct {
	Admin *services.AdminService
	Log   *utils.Logger
	now   func() time.Time
}

func NewAnalyticsController(admin *services.AdminService, log *utils.Logger) *AnalyticsController {
	return &AnalyticsController{Admin: admin, Log: log, now: time.Now}
}

// ListUsers godoc
// @Summary List users
// @Description Returns users newest first
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} utils.SuccessResponse{meta=utils.PageMeta}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (ac *AnalyticsController) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	users, total, err := ac.Admin.ListUsers(c.UserContext(), page, pageSize)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Paginate(c, users, total, page, pageSize)
}

// GetUserStats godoc
// @Summary User statistics
// @Description Counts all users and those active during the last 7 days
// @Tags admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/users/stats [get]
func (ac *AnalyticsController) GetUserStats(c *fiber.Ctx) error {
	stats, err := ac.Admin.UserStats(c.UserContext(), ac.now())
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// GrantAdmin godoc
// @Summary Grant admin role
// @Description Makes the user an administrator. Granting twice is a no-op
// @Tags admin
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/admin [post]
func (ac *AnalyticsController) GrantAdmin(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ac.Admin.GrantAdmin(c.UserContext(), userID); err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.NoContent(c)
}

// RevokeAdmin godoc
// @Summary Revoke admin role
// @Description Removes the user's admin role. Callers cannot revoke their own
// @Tags admin
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/admin [delete]
func (ac *AnalyticsController) RevokeAdmin(c *fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ac.Admin.RevokeAdmin(c.UserContext(), actorID, userID); err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.NoContent(c)
}
