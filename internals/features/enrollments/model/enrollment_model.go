package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
)

// EnrollmentModel adalah ledger kepemilikan: satu baris = user memiliki
// satu chapter. Unik per (user, chapter) — pembelian ulang tidak boleh
// menambah baris.
type EnrollmentModel struct {
	EnrollmentID        uuid.UUID `gorm:"column:enrollment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_id"`
	EnrollmentUserID    uuid.UUID `gorm:"column:enrollment_user_id;type:uuid;not null;uniqueIndex:uniq_enrollment_user_chapter" json:"enrollment_user_id"`
	EnrollmentCourseID  uuid.UUID `gorm:"column:enrollment_course_id;type:uuid;not null;index" json:"enrollment_course_id"`
	EnrollmentChapterID uuid.UUID `gorm:"column:enrollment_chapter_id;type:uuid;not null;uniqueIndex:uniq_enrollment_user_chapter" json:"enrollment_chapter_id"`

	EnrollmentStatus   string `gorm:"column:enrollment_status;type:varchar(20);not null;default:'active'" json:"enrollment_status"`
	EnrollmentProgress int    `gorm:"column:enrollment_progress;not null;default:0" json:"enrollment_progress"`

	EnrollmentCompletedAt *time.Time `gorm:"column:enrollment_completed_at" json:"enrollment_completed_at"`
	EnrollmentCreatedAt   time.Time  `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
	EnrollmentUpdatedAt   time.Time  `gorm:"column:enrollment_updated_at;autoUpdateTime" json:"enrollment_updated_at"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	return nil
}
