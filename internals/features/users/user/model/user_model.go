package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"famhealth_backend/internals/constants"
)

// UserModel is a login-capable account. Each user belongs to exactly one
// family; the first user created for a family is the admin.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=6"`
	FirstName string    `gorm:"size:100;not null" json:"first_name" validate:"required,max=100"`
	LastName  string    `gorm:"size:100;not null" json:"last_name" validate:"required,max=100"`
	FamilyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"family_id"`
	Role      string    `gorm:"type:varchar(20);not null;default:'non_admin'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleNonAdmin
	}
	return nil
}

func (u *UserModel) FullName() string {
	return u.FirstName + " " + u.LastName
}
