package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalReportModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID      uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	ReportType    string    `gorm:"size:40;not null" json:"report_type"`
	ReportSubType string    `gorm:"size:100" json:"report_sub_type"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	FilePath      string    `gorm:"size:500;not null" json:"file_path"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	FileSize      int64     `json:"file_size"`
	ReportDate    time.Time `gorm:"not null" json:"report_date"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MedicalReportModel) TableName() string {
	return "medical_reports"
}

func (r *MedicalReportModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
