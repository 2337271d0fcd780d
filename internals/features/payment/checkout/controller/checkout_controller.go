package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	checkoutService "klaskonstruksi_backend/internals/features/payment/checkout/service"
)

type CheckoutController struct {
	DB *gorm.DB
}

func NewCheckoutController(db *gorm.DB) *CheckoutController {
	return &CheckoutController{DB: db}
}

func (cc *CheckoutController) GenerateSnapToken(c *fiber.Ctx) error {
	return checkoutService.GenerateSnapToken(cc.DB, c)
}

func (cc *CheckoutController) HandleNotification(c *fiber.Ctx) error {
	return checkoutService.HandleNotification(cc.DB, c)
}
