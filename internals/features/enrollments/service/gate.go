package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
)

/* =======================================
   Advisory unlock gate
======================================= */

// UnlockWarning menyusun pesan peringatan saat user melompati level.
// Pesan ini advisory: transaksi tetap jalan, frontend yang menampilkan.
func UnlockWarning(targetLevel int) string {
	return fmt.Sprintf(
		"WARNING: You are attempting to unlock [Level %d] but you haven't acquired [Level %d] yet.",
		targetLevel, targetLevel-1,
	)
}

// CheckUnlockGate mengembalikan warning (atau string kosong) untuk
// pembelian chapter target. Level 1 selalu bebas. Level N dianggap
// wajar kalau user sudah punya minimal satu chapter level N-1 di
// course yang sama. Kalau course tidak punya chapter level N-1 sama
// sekali, tidak ada yang bisa dilewati, jadi tidak ada warning.
func CheckUnlockGate(db *gorm.DB, userID uuid.UUID, target chapterModel.ChapterModel) (string, error) {
	if target.ChapterLevel <= 1 {
		return "", nil
	}

	var prevCount int64
	err := db.Model(&chapterModel.ChapterModel{}).
		Where("chapter_course_id = ?", target.ChapterCourseID).
		Where("chapter_level = ?", target.ChapterLevel-1).
		Count(&prevCount).Error
	if err != nil {
		return "", err
	}
	if prevCount == 0 {
		return "", nil
	}

	var owned int64
	err = db.Model(&chapterModel.ChapterModel{}).
		Joins("JOIN enrollments ON enrollments.enrollment_chapter_id = chapters.chapter_id").
		Where("enrollments.enrollment_user_id = ?", userID).
		Where("chapters.chapter_course_id = ?", target.ChapterCourseID).
		Where("chapters.chapter_level = ?", target.ChapterLevel-1).
		Count(&owned).Error
	if err != nil {
		return "", err
	}
	if owned > 0 {
		return "", nil
	}
	return UnlockWarning(target.ChapterLevel), nil
}
