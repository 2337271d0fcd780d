package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	chapterController "klaskonstruksi_backend/internals/features/lms/chapters/controller"
)

// ChapterAdminRoutes: CRUD chapter untuk admin (prefix /api/a).
func ChapterAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := chapterController.NewChapterController(db)

	api.Post("/chapters", ctrl.Create)
	api.Get("/courses/:courseId/chapters", ctrl.ListByCourse)
	api.Put("/chapters/:id", ctrl.Update)
	api.Delete("/chapters/:id", ctrl.Delete)
}
