package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CheckoutStatusPending = "pending"
	CheckoutStatusSettled = "settled"
	CheckoutStatusExpired = "expired"
	CheckoutStatusDenied  = "denied"
)

// CheckoutSessionModel menjembatani order Midtrans dengan ledger:
// webhook hanya membawa order_id, jadi pasangan (user, chapter) harus
// disimpan saat Snap token dibuat.
type CheckoutSessionModel struct {
	CheckoutOrderID   string    `gorm:"column:checkout_order_id;type:varchar(50);primaryKey" json:"checkout_order_id"`
	CheckoutUserID    uuid.UUID `gorm:"column:checkout_user_id;type:uuid;not null;index" json:"checkout_user_id"`
	CheckoutCourseID  uuid.UUID `gorm:"column:checkout_course_id;type:uuid;not null;index" json:"checkout_course_id"`
	CheckoutChapterID uuid.UUID `gorm:"column:checkout_chapter_id;type:uuid;not null;index" json:"checkout_chapter_id"`
	CheckoutAmount    int64     `gorm:"column:checkout_amount;not null" json:"checkout_amount"`
	CheckoutStatus    string    `gorm:"column:checkout_status;type:varchar(20);not null;default:'pending'" json:"checkout_status"`

	CheckoutCreatedAt time.Time `gorm:"column:checkout_created_at;autoCreateTime" json:"checkout_created_at"`
	CheckoutUpdatedAt time.Time `gorm:"column:checkout_updated_at;autoUpdateTime" json:"checkout_updated_at"`
}

func (CheckoutSessionModel) TableName() string {
	return "checkout_sessions"
}
