package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "klaskonstruksi_backend/internals/features/users/auth/controller"
	"klaskonstruksi_backend/internals/middlewares"
)

// AuthRoutes mendaftarkan endpoint publik untuk autentikasi.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/logout", ctrl.Logout)
}
