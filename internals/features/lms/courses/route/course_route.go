package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseController "klaskonstruksi_backend/internals/features/lms/courses/controller"
	ossHelper "klaskonstruksi_backend/internals/helpers/oss"
)

// CoursePublicRoutes: katalog marketplace, tanpa login.
func CoursePublicRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := courseController.NewCourseController(db, nil)

	api.Get("/courses", ctrl.List)
	api.Get("/courses/:slug", ctrl.GetBySlug)
}

// CourseAdminRoutes: CRUD course untuk admin (prefix /api/a).
func CourseAdminRoutes(api fiber.Router, db *gorm.DB, oss *ossHelper.OSSService) {
	ctrl := courseController.NewCourseController(db, oss)

	api.Post("/courses", ctrl.Create)
	api.Put("/courses/:id", ctrl.Update)
	api.Delete("/courses/:id", ctrl.Delete)
	api.Post("/courses/:id/thumbnail", ctrl.UploadThumbnail)
}
