package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	checkoutController "klaskonstruksi_backend/internals/features/payment/checkout/controller"
)

// CheckoutUserRoutes: pembuatan Snap token (prefix /api/u, butuh login).
func CheckoutUserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := checkoutController.NewCheckoutController(db)

	api.Post("/checkout/snap-token", ctrl.GenerateSnapToken)
}

// CheckoutWebhookRoutes: endpoint notifikasi Midtrans, sengaja publik
// (diverifikasi lewat signature, bukan JWT).
func CheckoutWebhookRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := checkoutController.NewCheckoutController(db)

	api.Post("/payments/notification", ctrl.HandleNotification)
}
