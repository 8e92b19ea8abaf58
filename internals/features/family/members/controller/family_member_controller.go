package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	memberDTO "famhealth_backend/internals/features/family/members/dto"
	memberModel "famhealth_backend/internals/features/family/members/model"
	memberService "famhealth_backend/internals/features/family/members/service"
	relationModel "famhealth_backend/internals/features/family/relationships/model"
	relationService "famhealth_backend/internals/features/family/relationships/service"
	documentModel "famhealth_backend/internals/features/health/documents/model"
	reportModel "famhealth_backend/internals/features/health/reports/model"
	vitalModel "famhealth_backend/internals/features/health/vitals/model"
	userModel "famhealth_backend/internals/features/users/user/model"
	helper "famhealth_backend/internals/helpers"
	"famhealth_backend/internals/helpers/storage"
)

type FamilyMemberController struct {
	DB *gorm.DB
}

func NewFamilyMemberController(db *gorm.DB) *FamilyMemberController {
	return &FamilyMemberController{DB: db}
}

/* ==========================
   LIST / GET
========================== */

// List returns every member of the caller's family together with their
// relationship edges.
func (mc *FamilyMemberController) List(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}

	var members []memberModel.FamilyMemberModel
	if err := mc.DB.Where("family_id = ?", familyID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load members")
	}

	grouped, err := relationService.ListForFamily(mc.DB, familyID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load relationships")
	}

	out := make([]memberDTO.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, memberDTO.ToMemberResponse(&members[i], grouped[members[i].ID]))
	}
	return helper.JsonOK(c, "", out)
}

func (mc *FamilyMemberController) GetByID(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}

	member, err := memberService.ResolveMemberInFamily(mc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	rels, err := relationService.ListForMember(mc.DB, familyID, member.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load relationships")
	}

	return helper.JsonOK(c, "", memberDTO.ToMemberResponse(member, rels))
}

/* ==========================
   ADD INITIAL MEMBER
========================== */

// AddInitial bootstraps the first member of an empty family: a non-admin
// user plus its member profile, no relationships. Rejected once the family
// has any member, so the general add flow (with its mandatory relationship
// list) cannot be bypassed.
func (mc *FamilyMemberController) AddInitial(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}

	var req memberDTO.AddInitialMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var memberCount int64
	if err := mc.DB.Model(&memberModel.FamilyMemberModel{}).
		Where("family_id = ?", familyID).
		Count(&memberCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check family state")
	}
	if memberCount > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "family already has members; use the add member endpoint")
	}

	member, err := mc.createMemberWithUser(familyID, createMemberInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		BloodGroup:   req.BloodGroup,
		MobileNumber: req.MobileNumber,
	}, nil)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to add member")
	}

	return helper.JsonCreated(c, "initial member added", memberDTO.ToMemberResponse(member, nil))
}

/* ==========================
   ADD MEMBER (GENERAL)
========================== */

// Add creates a member with its relationship edges atomically: email check,
// user, member, edge validation and inserts all happen in one transaction,
// so a single invalid relationship target leaves no partial state behind.
func (mc *FamilyMemberController) Add(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}

	var req memberDTO.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	member, err := mc.createMemberWithUser(familyID, createMemberInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		BloodGroup:   req.BloodGroup,
		MobileNumber: req.MobileNumber,
	}, *req.Relationships)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to add member")
	}

	rels, err := relationService.ListForMember(mc.DB, familyID, member.ID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load relationships")
	}
	return helper.JsonCreated(c, "member added", memberDTO.ToMemberResponse(member, rels))
}

type createMemberInput struct {
	Name         string
	Email        string
	Password     string
	DateOfBirth  *string
	Gender       *string
	BloodGroup   *string
	MobileNumber string
}

func (mc *FamilyMemberController) createMemberWithUser(famID uuid.UUID, in createMemberInput, relationships []memberDTO.RelationshipInput) (*memberModel.FamilyMemberModel, error) {
	dob, gender, bloodGroup, err := parseDemographics(in.DateOfBirth, in.Gender, in.BloodGroup)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	var member memberModel.FamilyMemberModel
	txErr := mc.DB.Transaction(func(tx *gorm.DB) error {
		var emailTaken int64
		if err := tx.Model(&userModel.UserModel{}).
			Where("lower(email) = ?", in.Email).
			Count(&emailTaken).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to check email")
		}
		if emailTaken > 0 {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}

		nameParts := splitName(in.Name)
		user := userModel.UserModel{
			Email:     in.Email,
			Password:  string(passwordHash),
			FirstName: nameParts[0],
			LastName:  nameParts[1],
			FamilyID:  famID,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}

		member = memberModel.FamilyMemberModel{
			FamilyID:     famID,
			UserID:       &user.ID,
			Name:         in.Name,
			DateOfBirth:  dob,
			Gender:       gender,
			BloodGroup:   bloodGroup,
			MobileNumber: in.MobileNumber,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create member")
		}

		if len(relationships) > 0 {
			if err := relationService.AddEdgesForNewMember(tx, famID, member.ID, relationships); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &member, nil
}

func parseDemographics(dobStr, gender, bloodGroup *string) (*time.Time, *string, *string, error) {
	var dob *time.Time
	if dobStr != nil && *dobStr != "" {
		parsed, err := memberDTO.ParseDate(*dobStr)
		if err != nil {
			return nil, nil, nil, err
		}
		dob = parsed
	}
	if gender != nil {
		if err := memberDTO.CheckGender(*gender); err != nil {
			return nil, nil, nil, err
		}
	}
	if bloodGroup != nil {
		if err := memberDTO.CheckBloodGroup(*bloodGroup); err != nil {
			return nil, nil, nil, err
		}
	}
	return dob, gender, bloodGroup, nil
}

// splitName derives first/last name for the linked user account from the
// member display name.
func splitName(full string) [2]string {
	full = strings.TrimSpace(full)
	i := strings.LastIndex(full, " ")
	if i < 0 {
		return [2]string{full, full}
	}
	return [2]string{full[:i], full[i+1:]}
}

func deleteStoredFile(c *fiber.Ctx, path string) error {
	return storage.Delete(c.UserContext(), path)
}

/* ==========================
   UPDATE (PARTIAL)
========================== */

// Update applies only the supplied fields; omitted fields stay untouched.
func (mc *FamilyMemberController) Update(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}

	var req memberDTO.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Empty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "no fields to update")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	member, err := memberService.ResolveMemberInFamily(mc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DateOfBirth != nil {
		dob, err := memberDTO.ParseDate(*req.DateOfBirth)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date_of_birth must be formatted as YYYY-MM-DD")
		}
		updates["date_of_birth"] = dob
	}
	if req.Gender != nil {
		if err := memberDTO.CheckGender(*req.Gender); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid gender")
		}
		updates["gender"] = *req.Gender
	}
	if req.BloodGroup != nil {
		if err := memberDTO.CheckBloodGroup(*req.BloodGroup); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid blood group")
		}
		updates["blood_group"] = *req.BloodGroup
	}
	if req.MobileNumber != nil {
		updates["mobile_number"] = *req.MobileNumber
	}

	if err := mc.DB.Model(&memberModel.FamilyMemberModel{}).
		Where("id = ? AND family_id = ?", member.ID, familyID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update member")
	}

	updated, err := memberService.ResolveMemberInFamily(mc.DB, member.ID, familyID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "member updated", memberDTO.ToMemberResponse(updated, nil))
}

/* ==========================
   DELETE (CASCADE)
========================== */

// Delete removes the member and everything hanging off it: relationship
// edges in both directions, vitals, reports, documents, then the member
// row. The linked user (if any) survives with its back-reference nulled.
func (mc *FamilyMemberController) Delete(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}

	member, err := memberService.ResolveMemberInFamily(mc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	// collect file paths before the rows go away
	var filePaths []string
	var reports []reportModel.MedicalReportModel
	if err := mc.DB.Where("member_id = ?", member.ID).Find(&reports).Error; err == nil {
		for _, r := range reports {
			filePaths = append(filePaths, r.FilePath)
		}
	}
	var documents []documentModel.DocumentModel
	if err := mc.DB.Where("member_id = ?", member.ID).Find(&documents).Error; err == nil {
		for _, d := range documents {
			filePaths = append(filePaths, d.FilePath)
		}
	}

	if err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ? OR related_member_id = ?", member.ID, member.ID).
			Delete(&relationModel.FamilyRelationshipModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", member.ID).
			Delete(&vitalModel.HealthVitalModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", member.ID).
			Delete(&reportModel.MedicalReportModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", member.ID).
			Delete(&documentModel.DocumentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&memberModel.FamilyMemberModel{}, "id = ?", member.ID).Error
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete member")
	}

	// best-effort file cleanup after commit
	for _, p := range filePaths {
		if err := deleteStoredFile(c, p); err != nil {
			log.Printf("[WARN] removing file %s: %v", p, err)
		}
	}

	return helper.JsonDeleted(c, "member deleted", fiber.Map{"id": member.ID})
}
