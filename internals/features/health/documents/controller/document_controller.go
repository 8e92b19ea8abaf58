package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	memberService "famhealth_backend/internals/features/family/members/service"
	documentDTO "famhealth_backend/internals/features/health/documents/dto"
	documentModel "famhealth_backend/internals/features/health/documents/model"
	helper "famhealth_backend/internals/helpers"
	"famhealth_backend/internals/helpers/storage"
)

type DocumentController struct {
	DB *gorm.DB
}

func NewDocumentController(db *gorm.DB) *DocumentController {
	return &DocumentController{DB: db}
}

/* ==========================
   UPLOAD
========================== */

func (dc *DocumentController) Create(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(dc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	var form documentDTO.CreateDocumentForm
	if err := c.BodyParser(&form); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form data")
	}
	form.Normalize()
	if err := helper.Validate.Struct(form); err != nil {
		return helper.JsonValidationError(c, err)
	}

	uploadDate := time.Now().UTC()
	if form.UploadDate != "" {
		d, err := time.Parse("2006-01-02", form.UploadDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "upload_date must be formatted as YYYY-MM-DD")
		}
		uploadDate = d
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}

	saved, err := storage.Save(c.UserContext(), "documents/"+member.ID.String(), fh)
	if err != nil {
		log.Printf("[ERROR] saving document file: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to store file")
	}

	doc := documentModel.DocumentModel{
		MemberID:    member.ID,
		Title:       form.Title,
		Description: form.Description,
		FilePath:    saved.Path,
		FileName:    saved.Name,
		FileSize:    saved.Size,
		UploadDate:  uploadDate,
	}
	if err := dc.DB.Create(&doc).Error; err != nil {
		_ = storage.Delete(c.UserContext(), saved.Path)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save document")
	}
	return helper.JsonCreated(c, "document uploaded", doc)
}

/* ==========================
   LIST / GET / UPDATE / DELETE
========================== */

func (dc *DocumentController) List(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	memberID, err := memberService.ParseMemberID(c)
	if err != nil {
		return err
	}
	member, err := memberService.ResolveMemberInFamily(dc.DB, memberID, familyID)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := dc.DB.Model(&documentModel.DocumentModel{}).
		Where("member_id = ?", member.ID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count documents")
	}

	var docs []documentModel.DocumentModel
	if err := dc.DB.Where("member_id = ?", member.ID).
		Order("upload_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&docs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load documents")
	}
	return helper.JsonList(c, "", docs, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

func (dc *DocumentController) resolveDocumentInFamily(docID, familyID uuid.UUID) (*documentModel.DocumentModel, error) {
	var doc documentModel.DocumentModel
	err := dc.DB.
		Joins("JOIN family_members fm ON fm.id = documents.member_id").
		Where("documents.id = ? AND fm.family_id = ?", docID, familyID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "document not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to resolve document")
	}
	return &doc, nil
}

func (dc *DocumentController) GetByID(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	docID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid document id")
	}
	doc, err := dc.resolveDocumentInFamily(docID, familyID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "", doc)
}

func (dc *DocumentController) Update(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	docID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid document id")
	}
	doc, err := dc.resolveDocumentInFamily(docID, familyID)
	if err != nil {
		return err
	}

	var req documentDTO.UpdateDocumentRequest
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
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := dc.DB.Model(&documentModel.DocumentModel{}).
		Where("id = ?", doc.ID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update document")
	}

	var updated documentModel.DocumentModel
	if err := dc.DB.First(&updated, "id = ?", doc.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to reload document")
	}
	return helper.JsonUpdated(c, "document updated", updated)
}

func (dc *DocumentController) Delete(c *fiber.Ctx) error {
	familyID, err := helper.GetFamilyID(c)
	if err != nil {
		return err
	}
	docID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid document id")
	}
	doc, err := dc.resolveDocumentInFamily(docID, familyID)
	if err != nil {
		return err
	}

	if err := dc.DB.Delete(&documentModel.DocumentModel{}, "id = ?", doc.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete document")
	}
	if err := storage.Delete(c.UserContext(), doc.FilePath); err != nil {
		log.Printf("[WARN] removing file %s: %v", doc.FilePath, err)
	}
	return helper.JsonDeleted(c, "document deleted", fiber.Map{"id": doc.ID})
}
