package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseModel mencatat histori transaksi (append-only, bahan laporan
// pendapatan). Baris enrollment adalah sumber kebenaran kepemilikan;
// gagal insert purchase tidak boleh menggagalkan pembelian.
type PurchaseModel struct {
	PurchaseID        uuid.UUID `gorm:"column:purchase_id;type:uuid;default:gen_random_uuid();primaryKey" json:"purchase_id"`
	PurchaseUserID    uuid.UUID `gorm:"column:purchase_user_id;type:uuid;not null;index" json:"purchase_user_id"`
	PurchaseCourseID  uuid.UUID `gorm:"column:purchase_course_id;type:uuid;not null;index" json:"purchase_course_id"`
	PurchaseChapterID uuid.UUID `gorm:"column:purchase_chapter_id;type:uuid;not null;index" json:"purchase_chapter_id"`

	PurchaseAmount    int64   `gorm:"column:purchase_amount;not null;default:0" json:"purchase_amount"`
	PurchaseReference *string `gorm:"column:purchase_reference;type:varchar(100)" json:"purchase_reference"`

	PurchaseCreatedAt time.Time `gorm:"column:purchase_created_at;autoCreateTime" json:"purchase_created_at"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

func (m *PurchaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.PurchaseID == uuid.Nil {
		m.PurchaseID = uuid.New()
	}
	return nil
}
