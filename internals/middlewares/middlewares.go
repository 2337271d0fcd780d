package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMiddleware "klaskonstruksi_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global (urutan penting: recovery duluan).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMiddleware.RequestLogger())
	app.Use(GlobalRateLimiter())
}
