package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	profileController "klaskonstruksi_backend/internals/features/users/profile/controller"
)

// ProfileUserRoutes: endpoint profil milik user login (prefix /api/u).
func ProfileUserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := profileController.NewProfileController(db)

	api.Get("/me", ctrl.Me)
	api.Put("/me", ctrl.UpdateMe)
}

// ProfileAdminRoutes: tabel user untuk dashboard admin (prefix /api/a).
func ProfileAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := profileController.NewProfileController(db)

	api.Get("/users", ctrl.ListUsers)
}
