package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"famhealth_backend/internals/constants"
	memberModel "famhealth_backend/internals/features/family/members/model"
	relationModel "famhealth_backend/internals/features/family/relationships/model"
	relationService "famhealth_backend/internals/features/family/relationships/service"
	helper "famhealth_backend/internals/helpers"
)

type RelationshipController struct {
	DB *gorm.DB
}

func NewRelationshipController(db *gorm.DB) *RelationshipController {
	return &RelationshipController{DB: db}
}

type addRelationshipRequest struct {
	MemberID         uuid.UUID `json:"member_id" validate:"required"`
	RelatedMemberID  uuid.UUID `json:"related_member_id" validate:"required"`
	RelationshipType string    `json:"relationship_type" validate:"required"`
}

// Add inserts exactly one edge. Both ids must jointly resolve to 2 distinct
// members of the caller's family; passing the same id twice fails the
// count. No reciprocal edge is ever created here.
func (rc *RelationshipController) Add(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}

	var req addRelationshipRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !constants.IsValidRelationshipType(req.RelationshipType) {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid relationship type")
	}

	var count int64
	if err := rc.DB.Model(&memberModel.FamilyMemberModel{}).
		Where("id IN ? AND family_id = ?", []uuid.UUID{req.MemberID, req.RelatedMemberID}, familyID).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to validate members")
	}
	if count != 2 {
		return helper.JsonError(c, fiber.StatusBadRequest, "both members must belong to your family")
	}

	edge := relationModel.FamilyRelationshipModel{
		FamilyID:         familyID,
		MemberID:         req.MemberID,
		RelatedMemberID:  req.RelatedMemberID,
		RelationshipType: req.RelationshipType,
	}
	if err := rc.DB.Create(&edge).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create relationship")
	}

	return helper.JsonCreated(c, "relationship added", edge)
}

// List returns every edge of the caller's family grouped by member id.
func (rc *RelationshipController) List(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}

	grouped, err := relationService.ListForFamily(rc.DB, familyID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load relationships")
	}

	out := make(map[string]any, len(grouped))
	for memberID, rels := range grouped {
		out[memberID.String()] = rels
	}
	return helper.JsonOK(c, "", out)
}
