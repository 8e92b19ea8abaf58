package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HealthVitalModel is one timestamped measurement of a physiological
// metric. RecordedAt is the clinically relevant date, distinct from
// CreatedAt. Derived values (BMI) are never stored.
type HealthVitalModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID   uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	VitalType  string    `gorm:"size:30;not null;index" json:"vital_type"`
	Value      float64   `gorm:"type:decimal(10,2);not null" json:"value"`
	Unit       string    `gorm:"size:20;not null" json:"unit"`
	Notes      string    `gorm:"type:text" json:"notes"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HealthVitalModel) TableName() string {
	return "health_vitals"
}

func (v *HealthVitalModel) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
