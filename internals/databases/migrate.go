package database

import (
	"log"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	courseModel "klaskonstruksi_backend/internals/features/lms/courses/model"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
	checkoutModel "klaskonstruksi_backend/internals/features/payment/checkout/model"
	profileModel "klaskonstruksi_backend/internals/features/users/profile/model"
	userModel "klaskonstruksi_backend/internals/features/users/user/model"
)

// MigrateAll menjalankan AutoMigrate semua model. Dipanggil opt-in
// lewat env RUN_MIGRATIONS=true (di production skema dikelola manual).
func MigrateAll() {
	err := DB.AutoMigrate(
		&userModel.UserModel{},
		&profileModel.ProfileModel{},
		&courseModel.CourseModel{},
		&chapterModel.ChapterModel{},
		&lessonModel.LessonModel{},
		&enrollmentModel.EnrollmentModel{},
		&enrollmentModel.PurchaseModel{},
		&checkoutModel.CheckoutSessionModel{},
	)
	if err != nil {
		log.Fatalf("❌ Gagal migrasi: %v", err)
	}
	log.Println("✅ Migrasi selesai.")
}
