package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"klaskonstruksi_backend/internals/configs"
	enrollmentService "klaskonstruksi_backend/internals/features/enrollments/service"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	checkoutModel "klaskonstruksi_backend/internals/features/payment/checkout/model"
	helper "klaskonstruksi_backend/internals/helpers"
)

/* =======================================
   Midtrans Snap client
======================================= */

var (
	snapClient        snap.Client
	midtransServerKey string
)

// InitMidtrans dipanggil sekali dari main setelah env dimuat.
func InitMidtrans(serverKey string) {
	midtransServerKey = strings.TrimSpace(serverKey)
	if midtransServerKey == "" {
		log.Println("⚠️ [MIDTRANS] Server key kosong, checkout Midtrans nonaktif")
		return
	}
	env := midtrans.Sandbox
	if configs.GetEnv("MIDTRANS_ENV", "sandbox") == "production" {
		env = midtrans.Production
	}
	snapClient.New(midtransServerKey, env)
	log.Println("✅ [MIDTRANS] Snap client siap")
}

func newOrderID(chapterID uuid.UUID) string {
	// Max 50 karakter di Midtrans; prefix + 8 hex chapter + epoch cukup unik.
	return fmt.Sprintf("KK-%s-%d", strings.ToUpper(chapterID.String()[:8]), time.Now().UnixMilli())
}

/* =======================================
   POST /api/u/checkout/snap-token
======================================= */

type snapTokenRequest struct {
	ChapterID string `json:"chapter_id"`
}

// GenerateSnapToken membuat sesi checkout + Snap token untuk satu chapter.
func GenerateSnapToken(db *gorm.DB, c *fiber.Ctx) error {
	if midtransServerKey == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Pembayaran belum dikonfigurasi")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body snapTokenRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	chapterID, err := uuid.Parse(strings.TrimSpace(body.ChapterID))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "chapter_id tidak valid")
	}

	var chapter chapterModel.ChapterModel
	if err := db.First(&chapter, "chapter_id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	owned, err := enrollmentService.HasEntitlement(db, userID, chapter.ChapterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if owned {
		return helper.JsonError(c, fiber.StatusConflict, "Chapter sudah dimiliki")
	}

	// Chapter gratis tidak perlu lewat Midtrans.
	if chapter.ChapterPrice <= 0 {
		if _, err := enrollmentService.Purchase(db, userID, chapter.ChapterCourseID, chapter.ChapterID, 0, nil); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses chapter gratis")
		}
		return helper.JsonOK(c, "Chapter gratis, langsung aktif", fiber.Map{"free": true})
	}

	orderID := newOrderID(chapter.ChapterID)
	session := checkoutModel.CheckoutSessionModel{
		CheckoutOrderID:   orderID,
		CheckoutUserID:    userID,
		CheckoutCourseID:  chapter.ChapterCourseID,
		CheckoutChapterID: chapter.ChapterID,
		CheckoutAmount:    chapter.ChapterPrice,
		CheckoutStatus:    checkoutModel.CheckoutStatusPending,
	}
	if err := db.Create(&session).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat sesi checkout")
	}

	email := helper.GetUserEmailFromToken(c)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: chapter.ChapterPrice,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    chapter.ChapterID.String(),
			Name:  truncateItemName(chapter.ChapterTitle),
			Price: chapter.ChapterPrice,
			Qty:   1,
		}},
		CustomerDetail: &midtrans.CustomerDetails{Email: email},
	}

	resp, snapErr := snapClient.CreateTransaction(req)
	if snapErr != nil {
		log.Println("❌ [MIDTRANS] Gagal membuat Snap transaction:", snapErr.GetMessage())
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}

	return helper.JsonCreated(c, "Snap token dibuat", fiber.Map{
		"order_id":     orderID,
		"token":        resp.Token,
		"redirect_url": resp.RedirectURL,
	})
}

// Nama item Midtrans max 50 karakter.
func truncateItemName(name string) string {
	if len(name) > 50 {
		return name[:50]
	}
	return name
}

/* =======================================
   POST /api/payments/notification (webhook)
======================================= */

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

func validSignature(n midtransNotification) bool {
	raw := n.OrderID + n.StatusCode + n.GrossAmount + midtransServerKey
	sum := sha512.Sum512([]byte(raw))
	return hex.EncodeToString(sum[:]) == n.SignatureKey
}

// HandleNotification memproses webhook Midtrans. Settlement/capture
// menulis enrollment via ledger; ledger-nya idempotent, jadi webhook
// yang dikirim ulang aman.
func HandleNotification(db *gorm.DB, c *fiber.Ctx) error {
	var n midtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification body")
	}
	if !validSignature(n) {
		log.Println("❌ [MIDTRANS] Signature webhook tidak cocok, order:", n.OrderID)
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature")
	}

	var session checkoutModel.CheckoutSessionModel
	if err := db.First(&session, "checkout_order_id = ?", n.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Order tidak dikenal")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	switch n.TransactionStatus {
	case "settlement", "capture":
		if n.TransactionStatus == "capture" && n.FraudStatus == "challenge" {
			// Biarkan pending sampai fraud review selesai.
			return helper.JsonOK(c, "OK", nil)
		}
		orderRef := session.CheckoutOrderID
		if _, err := enrollmentService.Purchase(db, session.CheckoutUserID, session.CheckoutCourseID, session.CheckoutChapterID, session.CheckoutAmount, &orderRef); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencatat kepemilikan")
		}
		if err := db.Model(&session).Update("checkout_status", checkoutModel.CheckoutStatusSettled).Error; err != nil {
			log.Println("⚠️ [MIDTRANS] Gagal update status sesi:", err)
		}
		log.Println("✅ [MIDTRANS] Settlement order:", n.OrderID)
	case "deny", "cancel":
		_ = db.Model(&session).Update("checkout_status", checkoutModel.CheckoutStatusDenied).Error
	case "expire":
		_ = db.Model(&session).Update("checkout_status", checkoutModel.CheckoutStatusExpired).Error
	}

	return helper.JsonOK(c, "OK", nil)
}
