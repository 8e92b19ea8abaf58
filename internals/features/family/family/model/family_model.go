package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyModel is the tenancy boundary: every user and member belongs to
// exactly one family, and all access control is scoped to it.
type FamilyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FamilyModel) TableName() string {
	return "families"
}

func (f *FamilyModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
