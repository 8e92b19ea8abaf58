package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberController "famhealth_backend/internals/features/family/members/controller"
	relationController "famhealth_backend/internals/features/family/relationships/controller"
	authMiddleware "famhealth_backend/internals/middlewares/auth"
)

// FamilyRoutes mounts the member lifecycle and relationship endpoints on
// the authenticated /family group.
func FamilyRoutes(family fiber.Router, db *gorm.DB) {
	members := memberController.NewFamilyMemberController(db)
	relations := relationController.NewRelationshipController(db)

	family.Get("/members", members.List)
	family.Post("/members/initial", members.AddInitial)
	family.Post("/members", members.Add)
	family.Get("/members/:id", members.GetByID)
	family.Put("/members/:id", members.Update)
	family.Delete("/members/:id", authMiddleware.OnlyAdmin(), members.Delete)

	family.Post("/relationships", relations.Add)
	family.Get("/relationships", relations.List)
}
