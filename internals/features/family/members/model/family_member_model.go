package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyMemberModel is a person tracked within a family. UserID links the
// member to its login account when one exists; members added without
// credentials have no user. Deleting a user nulls the back-reference,
// deleting a member never deletes the user.
type FamilyMemberModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FamilyID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"family_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"user_id,omitempty"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         *string    `gorm:"size:20" json:"gender,omitempty"`
	BloodGroup     *string    `gorm:"size:5" json:"blood_group,omitempty"`
	MobileNumber   string     `gorm:"size:20" json:"mobile_number"`
	ProfilePicture string     `gorm:"size:500" json:"profile_picture"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FamilyMemberModel) TableName() string {
	return "family_members"
}

func (m *FamilyMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
