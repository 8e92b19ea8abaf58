package dto

import (
	"strings"
	"time"
)

type CreateVitalRequest struct {
	VitalType  string    `json:"vital_type" validate:"required"`
	Value      float64   `json:"value" validate:"required"`
	Unit       string    `json:"unit" validate:"required,max=20"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at" validate:"required"`
}

func (r *CreateVitalRequest) Normalize() {
	r.VitalType = strings.TrimSpace(strings.ToLower(r.VitalType))
	r.Unit = strings.TrimSpace(r.Unit)
	r.Notes = strings.TrimSpace(r.Notes)
}

// UpdateVitalRequest: pointer fields, omitted means untouched.
type UpdateVitalRequest struct {
	Value      *float64   `json:"value,omitempty"`
	Unit       *string    `json:"unit,omitempty" validate:"omitempty,max=20"`
	Notes      *string    `json:"notes,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

func (r *UpdateVitalRequest) Empty() bool {
	return r.Value == nil && r.Unit == nil && r.Notes == nil && r.RecordedAt == nil
}

type BMIResponse struct {
	BMI            float64   `json:"bmi"`
	HeightCm       float64   `json:"height_cm"`
	WeightKg       float64   `json:"weight_kg"`
	HeightRecorded time.Time `json:"height_recorded_at"`
	WeightRecorded time.Time `json:"weight_recorded_at"`
}
