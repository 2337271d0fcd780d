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
	lessonModel "klaskonstruksi_backend/internals/features/lms/lessons/model"
)

// Default gen_random_uuid() milik Postgres tidak jalan di SQLite, jadi
// tabel dibuat manual (PK diisi hook model).
const testSchema = `
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

func TestDeleteCascadesToLessonsAndEnrollments(t *testing.T) {
	db := newTestDB(t)
	cc := NewChapterController(db)
	courseID := uuid.New()

	chapter := chapterModel.ChapterModel{ChapterCourseID: courseID, ChapterTitle: "Bab 1", ChapterLevel: 1}
	sibling := chapterModel.ChapterModel{ChapterCourseID: courseID, ChapterTitle: "Bab 2", ChapterLevel: 2}
	for _, ch := range []*chapterModel.ChapterModel{&chapter, &sibling} {
		if err := db.Create(ch).Error; err != nil {
			t.Fatalf("seed chapter: %v", err)
		}
	}

	lesson := lessonModel.LessonModel{LessonCourseID: courseID, LessonChapterID: chapter.ChapterID, LessonTitle: "Intro", LessonPosition: 1}
	siblingLesson := lessonModel.LessonModel{LessonCourseID: courseID, LessonChapterID: sibling.ChapterID, LessonTitle: "Intro", LessonPosition: 1}
	for _, l := range []*lessonModel.LessonModel{&lesson, &siblingLesson} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}

	enrollment := enrollmentModel.EnrollmentModel{
		EnrollmentUserID:    uuid.New(),
		EnrollmentCourseID:  courseID,
		EnrollmentChapterID: chapter.ChapterID,
		EnrollmentStatus:    enrollmentModel.EnrollmentStatusActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	app := fiber.New()
	app.Delete("/api/a/chapters/:id", cc.Delete)

	req := httptest.NewRequest("DELETE", "/api/a/chapters/"+chapter.ChapterID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var n int64
	if err := db.Model(&chapterModel.ChapterModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count chapter: %v", err)
	}
	if n != 1 {
		t.Errorf("chapter rows = %d, want 1 (hanya bab 2 yang tersisa)", n)
	}
	if err := db.Model(&lessonModel.LessonModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count lesson: %v", err)
	}
	if n != 1 {
		t.Errorf("lesson rows = %d, want 1", n)
	}
	if err := db.Model(&enrollmentModel.EnrollmentModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count enrollment: %v", err)
	}
	if n != 0 {
		t.Errorf("enrollment rows = %d, want 0", n)
	}
}
