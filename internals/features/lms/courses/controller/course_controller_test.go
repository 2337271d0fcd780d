package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	enrollmentModel "klaskonstruksi_backend/internals/features/enrollments/model"
	chapterModel "klaskonstruksi_backend/internals/features/lms/chapters/model"
	courseModel "klaskonstruksi_backend/internals/features/lms/courses/model"
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
)

// Default gen_random_uuid() milik Postgres tidak jalan di SQLite, jadi
// tabel dibuat manual (PK diisi hook model).
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
CREATE TABLE lessons (
	lesson_id TEXT PRIMARY KEY,
	lesson_course_id TEXT NOT NULL,
	lesson_chapter_id TEXT NOT NULL,
	lesson_title TEXT NOT NULL,
	lesson_video_id TEXT,
	lesson_duration REAL NOT NULL DEFAULT 0,
	lesson_position INTEGER NOT NULL DEFAULT 0,
	lesson_video_meta TEXT,
	lesson_created_at DATETIME,
	lesson_updated_at DATETIME
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

func TestDeleteCascadesToChaptersLessonsEnrollments(t *testing.T) {
	db := newTestDB(t)
	cc := NewCourseController(db, nil)

	course := courseModel.CourseModel{CourseTitle: "Struktur Baja", CourseSlug: "struktur-baja"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	other := courseModel.CourseModel{CourseTitle: "Manajemen Proyek", CourseSlug: "manajemen-proyek"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed course lain: %v", err)
	}

	chapter := chapterModel.ChapterModel{ChapterCourseID: course.CourseID, ChapterTitle: "Bab 1", ChapterLevel: 1}
	otherChapter := chapterModel.ChapterModel{ChapterCourseID: other.CourseID, ChapterTitle: "Bab 1", ChapterLevel: 1}
	for _, ch := range []*chapterModel.ChapterModel{&chapter, &otherChapter} {
		if err := db.Create(ch).Error; err != nil {
			t.Fatalf("seed chapter: %v", err)
		}
	}

	lesson := lessonModel.LessonModel{LessonCourseID: course.CourseID, LessonChapterID: chapter.ChapterID, LessonTitle: "Intro", LessonPosition: 1}
	otherLesson := lessonModel.LessonModel{LessonCourseID: other.CourseID, LessonChapterID: otherChapter.ChapterID, LessonTitle: "Intro", LessonPosition: 1}
	for _, l := range []*lessonModel.LessonModel{&lesson, &otherLesson} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}

	userID := uuid.New()
	enrollment := enrollmentModel.EnrollmentModel{
		EnrollmentUserID:    userID,
		EnrollmentCourseID:  course.CourseID,
		EnrollmentChapterID: chapter.ChapterID,
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	purchase := enrollmentModel.PurchaseModel{
		PurchaseUserID:    userID,
		PurchaseCourseID:  course.CourseID,
		PurchaseChapterID: chapter.ChapterID,
		PurchaseAmount:    150000,
	}
	if err := db.Create(&purchase).Error; err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	app := fiber.New()
	app.Delete("/api/a/courses/:id", cc.Delete)

	req := httptest.NewRequest("DELETE", "/api/a/courses/"+course.CourseID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if n := countRows(t, db, &courseModel.CourseModel{}); n != 1 {
		t.Errorf("course rows = %d, want 1 (hanya course lain yang tersisa)", n)
	}
	if n := countRows(t, db, &chapterModel.ChapterModel{}); n != 1 {
		t.Errorf("chapter rows = %d, want 1", n)
	}
	if n := countRows(t, db, &lessonModel.LessonModel{}); n != 1 {
		t.Errorf("lesson rows = %d, want 1", n)
	}
	if n := countRows(t, db, &enrollmentModel.EnrollmentModel{}); n != 0 {
		t.Errorf("enrollment rows = %d, want 0", n)
	}
	// Histori transaksi tidak ikut terhapus.
	if n := countRows(t, db, &enrollmentModel.PurchaseModel{}); n != 1 {
		t.Errorf("purchase rows = %d, want 1", n)
	}
}
