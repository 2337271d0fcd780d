package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
)

// Skema minimum untuk test; default gen_random_uuid() milik Postgres
// tidak jalan di SQLite, jadi tabel dibuat manual (PK diisi hook model).
const testSchema = `
CREATE TABLE courses (
	course_id TEXT PRIMARY KEY,
	course_title TEXT NOT NULL,
	course_slug TEXT NOT NULL,
	course_description TEXT,
	course_thumbnail_url TEXT,
	course_published INTEGER NOT NULL DEFAULT 0,
	course_created_by TEXT,
	course_created_at DATETIME,
	course_updated_at DATETIME
);
CREATE TABLE chapters (
	chapter_id TEXT PRIMARY KEY,
	chapter_course_id TEXT NOT NULL,
	chapter_title TEXT NOT NULL,
	chapter_description TEXT,
	chapter_level INTEGER NOT NULL DEFAULT 1,
	chapter_price INTEGER NOT NULL DEFAULT 0,
	chapter_position INTEGER NOT NULL DEFAULT 0,
	chapter_prereq_id TEXT,
	chapter_created_at DATETIME,
	chapter_updated_at DATETIME
);
CREATE TABLE enrollments (
	enrollment_id TEXT PRIMARY KEY,
	enrollment_user_id TEXT NOT NULL,
	enrollment_course_id TEXT NOT NULL,
	enrollment_chapter_id TEXT NOT NULL,
	enrollment_status TEXT NOT NULL DEFAULT 'active',
	enrollment_progress INTEGER NOT NULL DEFAULT 0,
	enrollment_completed_at DATETIME,
	enrollment_created_at DATETIME,
	enrollment_updated_at DATETIME,
	UNIQUE (enrollment_user_id, enrollment_chapter_id)
);
CREATE TABLE purchases (
	purchase_id TEXT PRIMARY KEY,
	purchase_user_id TEXT NOT NULL,
	purchase_course_id TEXT NOT NULL,
	purchase_chapter_id TEXT NOT NULL,
	purchase_amount INTEGER NOT NULL DEFAULT 0,
	purchase_reference TEXT,
	purchase_created_at DATETIME
);
`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(testSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestPurchaseIdempotent(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	chapterID := uuid.New()

	first, err := Purchase(db, userID, uuid.New(), chapterID, 150000, nil)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if first.EnrollmentStatus != enrollmentModel.EnrollmentStatusActive {
		t.Errorf("status = %q, want active", first.EnrollmentStatus)
	}

	second, err := Purchase(db, userID, uuid.New(), chapterID, 150000, nil)
	if err != nil {
		t.Fatalf("repeat purchase: %v", err)
	}
	if second.EnrollmentID != first.EnrollmentID {
		t.Errorf("repeat purchase returned different enrollment: %s vs %s", second.EnrollmentID, first.EnrollmentID)
	}

	if n := countRows(t, db, &enrollmentModel.EnrollmentModel{}); n != 1 {
		t.Errorf("enrollment rows = %d, want 1", n)
	}
	// Transaksi hanya tercatat untuk pembelian pertama.
	if n := countRows(t, db, &enrollmentModel.PurchaseModel{}); n != 1 {
		t.Errorf("purchase rows = %d, want 1", n)
	}
}

func TestPurchaseRecordsAmountAndReference(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	courseID := uuid.New()
	chapterID := uuid.New()
	ref := "KK-ABCD1234-1700000000000"

	if _, err := Purchase(db, userID, courseID, chapterID, 250000, &ref); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	var p enrollmentModel.PurchaseModel
	if err := db.First(&p).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if p.PurchaseAmount != 250000 {
		t.Errorf("amount = %d, want 250000", p.PurchaseAmount)
	}
	if p.PurchaseCourseID != courseID {
		t.Errorf("course = %s, want %s", p.PurchaseCourseID, courseID)
	}
	if p.PurchaseReference == nil || *p.PurchaseReference != ref {
		t.Errorf("reference = %v, want %q", p.PurchaseReference, ref)
	}
}

func TestPurchaseSurvivesRecordFailure(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	chapterID := uuid.New()

	// Tabel purchases sengaja dihilangkan: insert histori pasti gagal,
	// tapi enrollment tetap harus tercatat.
	if err := db.Exec("DROP TABLE purchases").Error; err != nil {
		t.Fatalf("drop purchases: %v", err)
	}

	enrollment, err := Purchase(db, userID, uuid.New(), chapterID, 150000, nil)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if enrollment.EnrollmentStatus != enrollmentModel.EnrollmentStatusActive {
		t.Errorf("status = %q, want active", enrollment.EnrollmentStatus)
	}

	owned, err := HasEntitlement(db, userID, chapterID)
	if err != nil {
		t.Fatalf("hasEntitlement: %v", err)
	}
	if !owned {
		t.Error("HasEntitlement = false, want true walau histori purchase gagal")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	chapterID := uuid.New()

	row := enrollmentModel.EnrollmentModel{
		EnrollmentUserID:    userID,
		EnrollmentChapterID: chapterID,
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	dup := enrollmentModel.EnrollmentModel{
		EnrollmentUserID:    userID,
		EnrollmentChapterID: chapterID,
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	err := db.Create(&dup).Error
	if err == nil {
		t.Fatal("duplicate insert should fail")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false, want true", err)
	}
	if isUniqueViolation(gorm.ErrRecordNotFound) {
		t.Error("isUniqueViolation(ErrRecordNotFound) = true, want false")
	}
	if isUniqueViolation(nil) {
		t.Error("isUniqueViolation(nil) = true, want false")
	}
}

func TestMarkCompleted(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	chapterID := uuid.New()

	if err := MarkCompleted(db, userID, chapterID, time.Now()); err != gorm.ErrRecordNotFound {
		t.Errorf("complete tanpa enrollment = %v, want ErrRecordNotFound", err)
	}

	if _, err := Purchase(db, userID, uuid.New(), chapterID, 0, nil); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	completedAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	if err := MarkCompleted(db, userID, chapterID, completedAt); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var e enrollmentModel.EnrollmentModel
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	if e.EnrollmentStatus != enrollmentModel.EnrollmentStatusCompleted {
		t.Errorf("status = %q, want completed", e.EnrollmentStatus)
	}
	if e.EnrollmentProgress != 100 {
		t.Errorf("progress = %d, want 100", e.EnrollmentProgress)
	}
	if e.EnrollmentCompletedAt == nil {
		t.Error("completed_at masih nil")
	}

	// Idempotent: dipanggil lagi tidak galat, angka tetap 100.
	if err := MarkCompleted(db, userID, chapterID, time.Now()); err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
}

func TestUpdateProgressSkipsCompleted(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	chapterID := uuid.New()

	if _, err := Purchase(db, userID, uuid.New(), chapterID, 0, nil); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if err := UpdateProgress(db, userID, chapterID, 45); err != nil {
		t.Fatalf("update progress: %v", err)
	}
	var e enrollmentModel.EnrollmentModel
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if e.EnrollmentProgress != 45 {
		t.Errorf("progress = %d, want 45", e.EnrollmentProgress)
	}

	if err := MarkCompleted(db, userID, chapterID, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Heartbeat telat yang datang setelah completed tidak boleh
	// menurunkan angka 100.
	if err := UpdateProgress(db, userID, chapterID, 60); err != nil {
		t.Fatalf("late update: %v", err)
	}
	if err := db.First(&e).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if e.EnrollmentProgress != 100 {
		t.Errorf("progress setelah completed = %d, want 100", e.EnrollmentProgress)
	}
}

func TestUpdateProgressClampsRange(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	chapterID := uuid.New()
	if _, err := Purchase(db, userID, uuid.New(), chapterID, 0, nil); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	cases := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{150, 100},
	}
	for _, tc := range cases {
		if err := UpdateProgress(db, userID, chapterID, tc.in); err != nil {
			t.Fatalf("update %d: %v", tc.in, err)
		}
		var e enrollmentModel.EnrollmentModel
		if err := db.First(&e).Error; err != nil {
			t.Fatalf("load: %v", err)
		}
		if e.EnrollmentProgress != tc.want {
			t.Errorf("progress(%d) = %d, want %d", tc.in, e.EnrollmentProgress, tc.want)
		}
	}
}
