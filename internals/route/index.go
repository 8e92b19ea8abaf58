package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "famhealth_backend/internals/middlewares/auth"
	routeDetails "famhealth_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// one authenticated group shared by the member and health routes, so
	// the token is verified once per request
	family := app.Group("/family", authMiddleware.AuthMiddleware(db))

	log.Println("[INFO] Setting up FamilyRoutes...")
	routeDetails.FamilyRoutes(family, db)

	log.Println("[INFO] Setting up HealthRoutes...")
	routeDetails.HealthRoutes(family, db)
}
