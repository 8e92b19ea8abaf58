package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyRelationshipModel is a directed labeled edge: member_id IS
// relationship_type OF related_member_id. Both endpoints must belong to
// family_id. The table deliberately carries no uniqueness or self-reference
// constraint; the write paths enforce what the API promises.
type FamilyRelationshipModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FamilyID         uuid.UUID `gorm:"type:uuid;not null;index" json:"family_id"`
	MemberID         uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	RelatedMemberID  uuid.UUID `gorm:"type:uuid;not null;index" json:"related_member_id"`
	RelationshipType string    `gorm:"size:20;not null" json:"relationship_type"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FamilyRelationshipModel) TableName() string {
	return "family_relationships"
}

func (r *FamilyRelationshipModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
