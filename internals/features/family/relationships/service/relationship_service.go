package service

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"famhealth_backend/internals/constants"
	memberDTO "famhealth_backend/internals/features/family/members/dto"
	memberModel "famhealth_backend/internals/features/family/members/model"
	relationModel "famhealth_backend/internals/features/family/relationships/model"
)

// AddEdgesForNewMember inserts the relationship edges supplied with an
// add-member request. Runs inside the caller's transaction: any invalid
// target or type aborts the whole member creation. This is the only write
// path that applies the reciprocal lookup (Husband<->Wife).
func AddEdgesForNewMember(tx *gorm.DB, familyID, memberID uuid.UUID, inputs []memberDTO.RelationshipInput) error {
	for _, in := range inputs {
		if !constants.IsValidRelationshipType(in.RelationshipType) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid relationship type: "+in.RelationshipType)
		}

		var count int64
		if err := tx.Model(&memberModel.FamilyMemberModel{}).
			Where("id = ? AND family_id = ?", in.RelatedMemberID, familyID).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to validate relationship target")
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid relationship target")
		}

		edge := relationModel.FamilyRelationshipModel{
			FamilyID:         familyID,
			MemberID:         memberID,
			RelatedMemberID:  in.RelatedMemberID,
			RelationshipType: in.RelationshipType,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create relationship")
		}

		if reciprocal, ok := constants.ReciprocalRelationships[in.RelationshipType]; ok {
			reverse := relationModel.FamilyRelationshipModel{
				FamilyID:         familyID,
				MemberID:         in.RelatedMemberID,
				RelatedMemberID:  memberID,
				RelationshipType: reciprocal,
			}
			if err := tx.Create(&reverse).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to create reciprocal relationship")
			}
		}
	}
	return nil
}

type edgeRow struct {
	ID                uuid.UUID `gorm:"column:id"`
	MemberID          uuid.UUID `gorm:"column:member_id"`
	RelatedMemberID   uuid.UUID `gorm:"column:related_member_id"`
	RelatedMemberName string    `gorm:"column:related_member_name"`
	RelationshipType  string    `gorm:"column:relationship_type"`
}

// ListForFamily returns every edge of the family joined with the related
// member's display name, grouped by the owning member id. No traversal or
// closure is computed; edges are stored facts.
func ListForFamily(db *gorm.DB, familyID uuid.UUID) (map[uuid.UUID][]memberDTO.RelationshipResponse, error) {
	var rows []edgeRow
	if err := db.Table("family_relationships AS fr").
		Select("fr.id, fr.member_id, fr.related_member_id, fm.name AS related_member_name, fr.relationship_type").
		Joins("JOIN family_members fm ON fm.id = fr.related_member_id").
		Where("fr.family_id = ?", familyID).
		Order("fr.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]memberDTO.RelationshipResponse, len(rows))
	for _, r := range rows {
		grouped[r.MemberID] = append(grouped[r.MemberID], memberDTO.RelationshipResponse{
			ID:                r.ID,
			RelatedMemberID:   r.RelatedMemberID,
			RelatedMemberName: r.RelatedMemberName,
			RelationshipType:  r.RelationshipType,
		})
	}
	return grouped, nil
}

// ListForMember returns the outgoing edges of one member.
func ListForMember(db *gorm.DB, familyID, memberID uuid.UUID) ([]memberDTO.RelationshipResponse, error) {
	var rows []edgeRow
	if err := db.Table("family_relationships AS fr").
		Select("fr.id, fr.member_id, fr.related_member_id, fm.name AS related_member_name, fr.relationship_type").
		Joins("JOIN family_members fm ON fm.id = fr.related_member_id").
		Where("fr.family_id = ? AND fr.member_id = ?", familyID, memberID).
		Order("fr.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]memberDTO.RelationshipResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, memberDTO.RelationshipResponse{
			ID:                r.ID,
			RelatedMemberID:   r.RelatedMemberID,
			RelatedMemberName: r.RelatedMemberName,
			RelationshipType:  r.RelationshipType,
		})
	}
	return out, nil
}
