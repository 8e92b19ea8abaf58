package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys populated by the auth middleware.
const (
	LocUserID   = "user_id"
	LocFamilyID = "family_id"
	LocUserRole = "user_role"
)

// GetUserID returns the authenticated caller's user id from Locals.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return localsUUID(c, LocUserID)
}

// GetFamilyID returns the caller's family scope. Every query touching
// members, vitals, reports, documents or relationships must filter on it.
func GetFamilyID(c *fiber.Ctx) (uuid.UUID, error) {
	return localsUUID(c, LocFamilyID)
}

func GetUserRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserRole).(string); ok {
		return v
	}
	return ""
}

func localsUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	s, ok := c.Locals(key).(string)
	if !ok || s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing "+key+" in context")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid "+key+" in context")
	}
	return id, nil
}
