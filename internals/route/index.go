package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"klaskonstruksi_backend/internals/configs"
	"klaskonstruksi_backend/internals/constants"
	dashboardRoute "klaskonstruksi_backend/internals/features/analytics/dashboard/route"
	enrollmentRoute "klaskonstruksi_backend/internals/features/enrollments/route"
	enrollmentService "klaskonstruksi_backend/internals/features/enrollments/service"
	chapterRoute "klaskonstruksi_backend/internals/features/lms/chapters/route"
	courseRoute "klaskonstruksi_backend/internals/features/lms/courses/route"
	lessonRoute "klaskonstruksi_backend/internals/features/lms/lessons/route"
	checkoutRoute "klaskonstruksi_backend/internals/features/payment/checkout/route"
	authRoute "klaskonstruksi_backend/internals/features/users/auth/route"
	profileRoute "klaskonstruksi_backend/internals/features/users/profile/route"
	ossHelper "klaskonstruksi_backend/internals/helpers/oss"
	"klaskonstruksi_backend/internals/helpers/video"
	authMW "klaskonstruksi_backend/internals/middlewares/auth"
)

// SetupRoutes merakit seluruh endpoint:
//
//	/api      → publik (katalog, auth, webhook pembayaran)
//	/api/u    → butuh login
//	/api/a    → butuh login + role admin
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	var bunny *video.Client
	if configs.BunnyLibraryID != "" && configs.BunnyAPIKey != "" {
		bunny = video.NewClient(configs.BunnyLibraryID, configs.BunnyAPIKey)
	} else {
		log.Println("⚠️ [ROUTE] Bunny Stream env kosong, endpoint video nonaktif")
	}

	oss, err := ossHelper.NewOSSServiceFromEnv()
	if err != nil {
		log.Println("⚠️ [ROUTE] OSS nonaktif:", err)
		oss = nil
	}

	tracker := enrollmentService.NewTracker(db)

	api := app.Group("/api")

	// ===== Publik =====
	authRoute.AuthRoutes(api, db)
	courseRoute.CoursePublicRoutes(api, db)
	checkoutRoute.CheckoutWebhookRoutes(api, db)

	// ===== User login =====
	u := api.Group("/u", authMW.AuthMiddleware(db))
	profileRoute.ProfileUserRoutes(u, db)
	enrollmentRoute.EnrollmentUserRoutes(u, db, tracker)
	lessonRoute.LessonUserRoutes(u, db, bunny)
	checkoutRoute.CheckoutUserRoutes(u, db)

	// ===== Admin =====
	a := api.Group("/a",
		authMW.AuthMiddleware(db),
		authMW.OnlyRoles(constants.RoleErrorAdmin("panel admin"), constants.AdminOnly...),
	)
	profileRoute.ProfileAdminRoutes(a, db)
	courseRoute.CourseAdminRoutes(a, db, oss)
	chapterRoute.ChapterAdminRoutes(a, db)
	lessonRoute.LessonAdminRoutes(a, db, bunny)
	dashboardRoute.DashboardAdminRoutes(a, db)
}
