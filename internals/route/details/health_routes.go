package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	documentController "famhealth_backend/internals/features/health/documents/controller"
	reportController "famhealth_backend/internals/features/health/reports/controller"
	vitalController "famhealth_backend/internals/features/health/vitals/controller"
)

// HealthRoutes mounts the per-member health record endpoints (vitals,
// medical reports, documents) on the authenticated /family group.
func HealthRoutes(family fiber.Router, db *gorm.DB) {
	vitals := vitalController.NewHealthVitalController(db)
	reports := reportController.NewMedicalReportController(db)
	documents := documentController.NewDocumentController(db)

	// vitals (bmi before the param-less list so the static segment wins)
	family.Get("/members/:id/vitals/bmi", vitals.BMI)
	family.Post("/members/:id/vitals", vitals.Create)
	family.Get("/members/:id/vitals", vitals.List)
	family.Put("/vitals/:vitalId", vitals.Update)
	family.Delete("/vitals/:vitalId", vitals.Delete)

	// medical reports
	family.Post("/members/:id/reports", reports.Create)
	family.Get("/members/:id/reports", reports.List)
	family.Get("/reports/:reportId", reports.GetByID)
	family.Put("/reports/:reportId", reports.Update)
	family.Delete("/reports/:reportId", reports.Delete)

	// documents
	family.Post("/members/:id/documents", documents.Create)
	family.Get("/members/:id/documents", documents.List)
	family.Get("/documents/:documentId", documents.GetByID)
	family.Put("/documents/:documentId", documents.Update)
	family.Delete("/documents/:documentId", documents.Delete)
}
