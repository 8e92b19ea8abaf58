package dto

import "strings"

// Metadata fields of the multipart upload form. The file itself arrives as
// the "file" part.
type CreateReportForm struct {
	Title         string `form:"title" validate:"required,max=255"`
	ReportType    string `form:"report_type" validate:"required"`
	ReportSubType string `form:"report_sub_type,omitempty" validate:"omitempty,max=100"`
	Description   string `form:"description,omitempty"`
	ReportDate    string `form:"report_date" validate:"required"`
}

func (r *CreateReportForm) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ReportType = strings.TrimSpace(strings.ToLower(r.ReportType))
	r.ReportSubType = strings.TrimSpace(r.ReportSubType)
	r.Description = strings.TrimSpace(r.Description)
	r.ReportDate = strings.TrimSpace(r.ReportDate)
}

type UpdateReportRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=255"`
	ReportSubType *string `json:"report_sub_type,omitempty" validate:"omitempty,max=100"`
	Description   *string `json:"description,omitempty"`
	ReportDate    *string `json:"report_date,omitempty"`
}

func (r *UpdateReportRequest) Empty() bool {
	return r.Title == nil && r.ReportSubType == nil && r.Description == nil && r.ReportDate == nil
}
