package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardController "klaskonstruksi_backend/internals/features/analytics/dashboard/controller"
)

// DashboardAdminRoutes: ringkasan pendapatan + counter (prefix /api/a).
func DashboardAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := dashboardController.NewDashboardController(db)

	api.Get("/dashboard", ctrl.Overview)
}
