package auth

import (
	"github.com/gofiber/fiber/v2"

	"alummah_backend/internals/constants"
	helper "alummah_backend/internals/helpers"
)

// OnlyAdmin guards the onboarding and fee endpoints; the actor role was
// put in locals by AuthMiddleware.
func OnlyAdmin(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != constants.RoleAdmin {
			return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
		}
		return c.Next()
	}
}
