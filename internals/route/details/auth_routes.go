package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "famhealth_backend/internals/features/users/auth/controller"
	"famhealth_backend/internals/middlewares"
	authMiddleware "famhealth_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := app.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)

	auth.Get("/profile", authMiddleware.AuthMiddleware(db), ctrl.Profile)
	auth.Post("/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)
	auth.Post("/change-password", authMiddleware.AuthMiddleware(db), ctrl.ChangePassword)
}
