package middleware

import (
	"github.com/gofiber/fiber/v2"

	"sagrapp/backend/config"
	"sagrapp/backend/services"
	"sagrapp/backend/utils"
)

// AuthMiddleware accepts a request only when its token is valid and the
// session it names is still live.
func AuthMiddleware(cfg *config.Config, auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		session, _, err := auth.CurrentSession(c.UserContext(), claims.SessionID)
		if err != nil || session.UserID != claims.UserID {
			return utils.Unauthorized(c, "Session expired")
		}

		utils.SetAuth(c, claims)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(admins *services.AdminService, log *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := utils.CurrentUserID(c)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}

		isAdmin, err := admins.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return utils.HandleError(c, log, err)
		}
		if !isAdmin {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}

		return c.Next()
	}
}
