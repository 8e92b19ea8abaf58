package dto

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"famhealth_backend/internals/constants"
	memberModel "famhealth_backend/internals/features/family/members/model"
)

const dateLayout = "2006-01-02"

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type RelationshipInput struct {
	RelatedMemberID  uuid.UUID `json:"related_member_id" validate:"required"`
	RelationshipType string    `json:"relationship_type" validate:"required"`
}

// AddInitialMemberRequest bootstraps the first member of a family. The
// caller supplies login credentials for the new linked user.
type AddInitialMemberRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=6"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	BloodGroup   *string `json:"blood_group,omitempty"`
	MobileNumber string  `json:"mobile_number,omitempty"`
}

func (r *AddInitialMemberRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
}

// AddMemberRequest adds a member plus its relationship edges. The
// relationships field is mandatory even when empty, which keeps the
// bootstrap (relationship-less) path distinct.
type AddMemberRequest struct {
	Name          string               `json:"name" validate:"required,min=2,max=200"`
	Email         string               `json:"email" validate:"required,email,max=255"`
	Password      string               `json:"password" validate:"required,min=6"`
	DateOfBirth   *string              `json:"date_of_birth,omitempty"`
	Gender        *string              `json:"gender,omitempty"`
	BloodGroup    *string              `json:"blood_group,omitempty"`
	MobileNumber  string               `json:"mobile_number,omitempty"`
	Relationships *[]RelationshipInput `json:"relationships" validate:"required"`
}

func (r *AddMemberRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
}

// UpdateMemberRequest is a typed partial update: pointer fields distinguish
// omitted from supplied, and omitted fields are never touched.
type UpdateMemberRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	BloodGroup   *string `json:"blood_group,omitempty"`
	MobileNumber *string `json:"mobile_number,omitempty"`
}

func (r *UpdateMemberRequest) Empty() bool {
	return r.Name == nil && r.DateOfBirth == nil && r.Gender == nil &&
		r.BloodGroup == nil && r.MobileNumber == nil
}

/* =======================================================
   Field validation/parsing shared by the request DTOs
   ======================================================= */

func ParseDate(s string) (*time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date_of_birth must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func CheckGender(g string) error {
	if !constants.IsValidGender(g) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gender")
	}
	return nil
}

func CheckBloodGroup(b string) error {
	if !constants.IsValidBloodGroup(b) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid blood group")
	}
	return nil
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type RelationshipResponse struct {
	ID                uuid.UUID `json:"id"`
	RelatedMemberID   uuid.UUID `json:"related_member_id"`
	RelatedMemberName string    `json:"related_member_name"`
	RelationshipType  string    `json:"relationship_type"`
}

type MemberResponse struct {
	ID             uuid.UUID              `json:"id"`
	FamilyID       uuid.UUID              `json:"family_id"`
	UserID         *uuid.UUID             `json:"user_id,omitempty"`
	Name           string                 `json:"name"`
	DateOfBirth    *string                `json:"date_of_birth,omitempty"`
	Gender         *string                `json:"gender,omitempty"`
	BloodGroup     *string                `json:"blood_group,omitempty"`
	MobileNumber   string                 `json:"mobile_number"`
	ProfilePicture string                 `json:"profile_picture"`
	CreatedAt      time.Time              `json:"created_at"`
	Relationships  []RelationshipResponse `json:"relationships"`
}

func ToMemberResponse(m *memberModel.FamilyMemberModel, rels []RelationshipResponse) MemberResponse {
	if rels == nil {
		rels = []RelationshipResponse{}
	}
	resp := MemberResponse{
		ID:             m.ID,
		FamilyID:       m.FamilyID,
		UserID:         m.UserID,
		Name:           m.Name,
		Gender:         m.Gender,
		BloodGroup:     m.BloodGroup,
		MobileNumber:   m.MobileNumber,
		ProfilePicture: m.ProfilePicture,
		CreatedAt:      m.CreatedAt,
		Relationships:  rels,
	}
	if m.DateOfBirth != nil {
		s := m.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &s
	}
	return resp
}
