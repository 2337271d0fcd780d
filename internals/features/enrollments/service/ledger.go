package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
)

/* =======================================
   Ledger kepemilikan chapter
======================================= */

// isUniqueViolation mendeteksi tabrakan unique index lintas driver:
// kode 23505 di Postgres, ErrDuplicatedKey via TranslateError di driver lain.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// HasEntitlement mengecek apakah user memiliki chapter.
func HasEntitlement(db *gorm.DB, userID, chapterID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_user_id = ? AND enrollment_chapter_id = ?", userID, chapterID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Purchase mencatat kepemilikan chapter untuk user. Idempotent:
//   - sudah punya → sukses tanpa baris baru
//   - race double-submit (unique violation) → dianggap sukses
//
// Catatan purchase bersifat best-effort: kalau gagal, cukup dicatat di log.
func Purchase(db *gorm.DB, userID, courseID, chapterID uuid.UUID, amount int64, reference *string) (*enrollmentModel.EnrollmentModel, error) {
	var existing enrollmentModel.EnrollmentModel
	err := db.Where("enrollment_user_id = ? AND enrollment_chapter_id = ?", userID, chapterID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := enrollmentModel.EnrollmentModel{
		EnrollmentUserID:    userID,
		EnrollmentCourseID:  courseID,
		EnrollmentChapterID: chapterID,
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
		EnrollmentProgress:  0,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			// Request paralel sudah lebih dulu menulis baris yang sama.
			if e2 := db.Where("enrollment_user_id = ? AND enrollment_chapter_id = ?", userID, chapterID).
				First(&existing).Error; e2 == nil {
				return &existing, nil
			}
			return &enrollment, nil
		}
		return nil, err
	}

	recordPurchase(db, userID, courseID, chapterID, amount, reference)
	return &enrollment, nil
}

func recordPurchase(db *gorm.DB, userID, courseID, chapterID uuid.UUID, amount int64, reference *string) {
	purchase := enrollmentModel.PurchaseModel{
		PurchaseUserID:    userID,
		PurchaseCourseID:  courseID,
		PurchaseChapterID: chapterID,
		PurchaseAmount:    amount,
		PurchaseReference: reference,
	}
	if err := db.Create(&purchase).Error; err != nil {
		log.Println("⚠️ [LEDGER] Gagal mencatat purchase (enrollment tetap sah):", err)
	}
}

// MarkCompleted menandai chapter selesai: progress dipatok 100 dan
// status jadi completed. Idempotent untuk chapter yang sudah selesai.
func MarkCompleted(db *gorm.DB, userID, chapterID uuid.UUID, now time.Time) error {
	res := db.Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_user_id = ? AND enrollment_chapter_id = ?", userID, chapterID).
		Updates(map[string]any{
			"enrollment_status":       enrollmentModel.EnrollmentStatusCompleted,
			"enrollment_progress":     100,
			"enrollment_completed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateProgress menyimpan persentase progres chapter. Chapter yang
// sudah completed tidak disentuh — angka 100 miliknya final.
func UpdateProgress(db *gorm.DB, userID, chapterID uuid.UUID, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return db.Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_user_id = ? AND enrollment_chapter_id = ? AND enrollment_status <> ?",
			userID, chapterID, enrollmentModel.EnrollmentStatusCompleted).
		Update("enrollment_progress", percent).Error
}
