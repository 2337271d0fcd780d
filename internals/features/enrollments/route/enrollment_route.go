package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollmentController "klaskonstruksi_backend/internals/features/enrollments/controller"
	enrollmentService "klaskonstruksi_backend/internals/features/enrollments/service"
)

// EnrollmentUserRoutes mendaftarkan endpoint belajar user (prefix /api/u).
func EnrollmentUserRoutes(api fiber.Router, db *gorm.DB, tracker *enrollmentService.Tracker) {
	ctrl := enrollmentController.NewEnrollmentController(db, tracker)

	api.Post("/chapters/:id/purchase", ctrl.Purchase)
	api.Post("/chapters/:id/heartbeat", ctrl.Heartbeat)
	api.Post("/chapters/:id/complete", ctrl.Complete)
	api.Get("/my-missions", ctrl.MyMissions)
}
