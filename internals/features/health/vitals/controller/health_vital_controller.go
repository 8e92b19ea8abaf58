package controller

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"famhealth_backend/internals/constants"
	memberService "famhealth_backend/internals/features/family/members/service"
	vitalDTO "famhealth_backend/internals/features/health/vitals/dto"
	vitalModel "famhealth_backend/internals/features/health/vitals/model"
	helper "famhealth_backend/internals/helpers"
)

type HealthVitalController struct {
	DB *gorm.DB
}

func NewHealthVitalController(db *gorm.DB) *HealthVitalController {
	return &HealthVitalController{DB: db}
}

/* ==========================
   CREATE
========================== */

func (vc *HealthVitalController) Create(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(vc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	var req vitalDTO.CreateVitalRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !constants.IsValidVitalType(req.VitalType) {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid vital type")
	}

	vital := vitalModel.HealthVitalModel{
		MemberID:   member.ID,
		VitalType:  req.VitalType,
		Value:      req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
		RecordedAt: req.RecordedAt,
	}
	if err := vc.DB.Create(&vital).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to record vital")
	}
	return helper.JsonCreated(c, "vital recorded", vital)
}

/* ==========================
   LIST
========================== */

func (vc *HealthVitalController) List(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(vc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := vc.DB.Model(&vitalModel.HealthVitalModel{}).Where("member_id = ?", member.ID)
	if vt := c.Query("vital_type"); vt != "" {
		if !constants.IsValidVitalType(vt) {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid vital type")
		}
		q = q.Where("vital_type = ?", vt)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count vitals")
	}

	var vitals []vitalModel.HealthVitalModel
	if err := q.Order("recorded_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&vitals).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load vitals")
	}

	return helper.JsonList(c, "", vitals, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ==========================
   UPDATE / DELETE
========================== */

// resolveVitalInFamily loads a vital only if its member belongs to the
// caller's family.
func (vc *HealthVitalController) resolveVitalInFamily(vitalID, familyID uuid.UUID) (*vitalModel.HealthVitalModel, error) {
	var vital vitalModel.HealthVitalModel
	err := vc.DB.
		Joins("JOIN family_members fm ON fm.id = health_vitals.member_id").
		Where("health_vitals.id = ? AND fm.family_id = ?", vitalID, familyID).
		First(&vital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "vital not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve vital")
	}
	return &vital, nil
}

func (vc *HealthVitalController) Update(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	vitalID, err := uuid.Parse(c.Params("vitalId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid vital id")
	}
	vital, err := vc.resolveVitalInFamily(vitalID, familyID)
	if err != nil {
		return err
	}

	var req vitalDTO.UpdateVitalRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Empty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "no fields to update")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.RecordedAt != nil {
		updates["recorded_at"] = *req.RecordedAt
	}

	if err := vc.DB.Model(&vitalModel.HealthVitalModel{}).
		Where("id = ?", vital.ID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update vital")
	}

	var updated vitalModel.HealthVitalModel
	if err := vc.DB.First(&updated, "id = ?", vital.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to reload vital")
	}
	return helper.JsonUpdated(c, "vital updated", updated)
}

func (vc *HealthVitalController) Delete(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	vitalID, err := uuid.Parse(c.Params("vitalId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid vital id")
	}
	vital, err := vc.resolveVitalInFamily(vitalID, familyID)
	if err != nil {
		return err
	}

	if err := vc.DB.Delete(&vitalModel.HealthVitalModel{}, "id = ?", vital.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete vital")
	}
	return helper.JsonDeleted(c, "vital deleted", fiber.Map{"id": vital.ID})
}

/* ==========================
   BMI (computed on read)
========================== */

// BMI derives body-mass index from the member's latest height and weight
// measurements. Nothing is persisted.
func (vc *HealthVitalController) BMI(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(vc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	latest := func(vitalType string) (*vitalModel.HealthVitalModel, error) {
		var v vitalModel.HealthVitalModel
		err := vc.DB.Where("member_id = ? AND vital_type = ?", member.ID, vitalType).
			Order("recorded_at DESC").
			First(&v).Error
		if err != nil {
			return nil, err
		}
		return &v, nil
	}

	height, err := latest(constants.VitalHeight)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "no height measurement recorded")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load vitals")
	}
	weight, err := latest(constants.VitalWeight)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "no weight measurement recorded")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load vitals")
	}
	if height.Value <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "recorded height is not usable")
	}

	meters := height.Value / 100
	bmi := math.Round(weight.Value/(meters*meters)*10) / 10

	return helper.JsonOK(c, "", vitalDTO.BMIResponse{
		BMI:            bmi,
		HeightCm:       height.Value,
		WeightKg:       weight.Value,
		HeightRecorded: height.RecordedAt,
		WeightRecorded: weight.RecordedAt,
	})
}
