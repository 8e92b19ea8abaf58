package auth

import (
	"github.com/gofiber/fiber/v2"

	"famhealth_backend/internals/constants"
	helper "famhealth_backend/internals/helpers"
)

// OnlyRoles composes with AuthMiddleware: 403 unless the resolved role is
// one of the allowed ones.
func OnlyRoles(customForbiddenMessage string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helper.LocUserRole).(string)
		if !ok || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing role information")
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "you are not authorized to access this resource"
		}
		return fiber.NewError(fiber.StatusForbidden, customForbiddenMessage)
	}
}

func OnlyAdmin() fiber.Handler {
	return OnlyRoles("admin role required", constants.RoleAdmin)
}
