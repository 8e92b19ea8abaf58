package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	memberModel "famhealth_backend/internals/features/family/members/model"
)

// ResolveMemberInFamily is the scope check gate: a member id outside the
// caller's family is indistinguishable from one that does not exist.
// Every read/write touching a member or its health records goes through
// this (or repeats the family_id predicate in its own query).
func ResolveMemberInFamily(db *gorm.DB, memberID, familyID uuid.UUID) (*memberModel.FamilyMemberModel, error) {
	var member memberModel.FamilyMemberModel
	if err := db.Where("id = ? AND family_id = ?", memberID, familyID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "member not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve member")
	}
	return &member, nil
}

// ParseMemberID reads the :id route param.
func ParseMemberID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid member id")
	}
	return id, nil
}
