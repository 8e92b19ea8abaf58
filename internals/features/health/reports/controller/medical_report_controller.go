package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"famhealth_backend/internals/constants"
	memberService "famhealth_backend/internals/features/family/members/service"
	reportDTO "famhealth_backend/internals/features/health/reports/dto"
	reportModel "famhealth_backend/internals/features/health/reports/model"
	helper "famhealth_backend/internals/helpers"
	"famhealth_backend/internals/helpers/storage"
)

type MedicalReportController struct {
	DB *gorm.DB
}

func NewMedicalReportController(db *gorm.DB) *MedicalReportController {
	return &MedicalReportController{DB: db}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

/* ==========================
   UPLOAD
========================== */

func (rc *MedicalReportController) Create(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(rc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	var form reportDTO.CreateReportForm
	if err := c.BodyParser(&form); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form data")
	}
	form.Normalize()
	if err := helper.Validate.Struct(form); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !constants.IsValidReportType(form.ReportType) {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid report type")
	}
	reportDate, err := parseDate(form.ReportDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "report_date must be formatted as YYYY-MM-DD")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}

	saved, err := storage.Save(c.UserContext(), "reports/"+member.ID.String(), fh)
	if err != nil {
		log.Printf("[ERROR] saving report file: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to store file")
	}

	report := reportModel.MedicalReportModel{
		MemberID:      member.ID,
		ReportType:    form.ReportType,
		ReportSubType: form.ReportSubType,
		Title:         form.Title,
		Description:   form.Description,
		FilePath:      saved.Path,
		FileName:      saved.Name,
		FileSize:      saved.Size,
		ReportDate:    reportDate,
	}
	if err := rc.DB.Create(&report).Error; err != nil {
		_ = storage.Delete(c.UserContext(), saved.Path)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save report")
	}
	return helper.JsonCreated(c, "report uploaded", report)
}

/* ==========================
   LIST / GET
========================== */

func (rc *MedicalReportController) List(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(rc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := rc.DB.Model(&reportModel.MedicalReportModel{}).Where("member_id = ?", member.ID)
	if rt := c.Query("report_type"); rt != "" {
		if !constants.IsValidReportType(rt) {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid report type")
		}
		q = q.Where("report_type = ?", rt)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count reports")
	}

	var reports []reportModel.MedicalReportModel
	if err := q.Order("report_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&reports).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load reports")
	}
	return helper.JsonList(c, "", reports, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

func (rc *MedicalReportController) resolveReportInFamily(reportID, familyID uuid.UUID) (*reportModel.MedicalReportModel, error) {
	var report reportModel.MedicalReportModel
	err := rc.DB.
		Joins("JOIN family_members fm ON fm.id = medical_reports.member_id").
		Where("medical_reports.id = ? AND fm.family_id = ?", reportID, familyID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve report")
	}
	return &report, nil
}

func (rc *MedicalReportController) GetByID(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid report id")
	}
	report, err := rc.resolveReportInFamily(reportID, familyID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "", report)
}

/* ==========================
   UPDATE / DELETE
========================== */

func (rc *MedicalReportController) Update(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid report id")
	}
	report, err := rc.resolveReportInFamily(reportID, familyID)
	if err != nil {
		return err
	}

	var req reportDTO.UpdateReportRequest
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
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ReportSubType != nil {
		updates["report_sub_type"] = *req.ReportSubType
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ReportDate != nil {
		d, err := parseDate(*req.ReportDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "report_date must be formatted as YYYY-MM-DD")
		}
		updates["report_date"] = d
	}

	if err := rc.DB.Model(&reportModel.MedicalReportModel{}).
		Where("id = ?", report.ID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update report")
	}

	var updated reportModel.MedicalReportModel
	if err := rc.DB.First(&updated, "id = ?", report.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to reload report")
	}
	return helper.JsonUpdated(c, "report updated", updated)
}

func (rc *MedicalReportController) Delete(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid report id")
	}
	report, err := rc.resolveReportInFamily(reportID, familyID)
	if err != nil {
		return err
	}

	if err := rc.DB.Delete(&reportModel.MedicalReportModel{}, "id = ?", report.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete report")
	}
	if err := storage.Delete(c.UserContext(), report.FilePath); err != nil {
		log.Printf("[WARN] removing file %s: %v", report.FilePath, err)
	}
	return helper.JsonDeleted(c, "report deleted", fiber.Map{"id": report.ID})
}
