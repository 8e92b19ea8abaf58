package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentModel is an untyped attachment tied to a member. Same shape as a
// medical report minus the type enum; kept as a separate entity on purpose.
type DocumentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID    uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FilePath    string    `gorm:"size:500;not null" json:"file_path"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	FileSize    int64     `json:"file_size"`
	UploadDate  time.Time `gorm:"not null" json:"upload_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DocumentModel) TableName() string {
	return "documents"
}

func (d *DocumentModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
