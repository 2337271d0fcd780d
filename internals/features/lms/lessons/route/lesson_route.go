package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	lessonController "klaskonstruksi_backend/internals/features/lms/lessons/controller"
	"klaskonstruksi_backend/internals/helpers/video"
)

// LessonUserRoutes: lesson + playback untuk user pemilik chapter (prefix /api/u).
func LessonUserRoutes(api fiber.Router, db *gorm.DB, bunny *video.Client) {
	ctrl := lessonController.NewLessonController(db, bunny)

	api.Get("/chapters/:id/lessons", ctrl.ListForPlayer)
}

// LessonAdminRoutes: editor lesson + proxy Bunny Stream (prefix /api/a).
func LessonAdminRoutes(api fiber.Router, db *gorm.DB, bunny *video.Client) {
	ctrl := lessonController.NewLessonController(db, bunny)

	api.Get("/chapters/:id/lessons", ctrl.ListForAdmin)
	api.Put("/chapters/:id/lessons", ctrl.SaveLessons)
	api.Post("/chapters/:id/lessons/reorder", ctrl.ReorderLessons)

	api.Post("/videos/create-slot", ctrl.CreateVideoSlot)
	api.Get("/videos", ctrl.ListVideos)
	api.Get("/videos/:videoId/status", ctrl.VideoStatus)
}
