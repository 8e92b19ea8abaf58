package dto

import "strings"

type CreateDocumentForm struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description,omitempty"`
	UploadDate  string `form:"upload_date,omitempty"`
}

func (r *CreateDocumentForm) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.UploadDate = strings.TrimSpace(r.UploadDate)
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateDocumentRequest) Empty() bool {
	return r.Title == nil && r.Description == nil
}
